package handler

import (
	"errors"
	"net/http"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"
	"lifeos-backend/internal/service"
	"lifeos-backend/pkg/response"

	"github.com/go-playground/validator/v10"
)

// AudioField is the multipart form field carrying the uploaded recording.
const AudioField = "audio_file"

// multipartMemory is how much of an upload ParseMultipartForm keeps in memory before spilling to disk.
const multipartMemory = 8 << 20

type SpeechHandler struct {
	transcription *service.TranscriptionService
	speech        *service.SpeechService
	validate      *validator.Validate
	maxUpload     int64
}

func NewSpeechHandler(transcription *service.TranscriptionService, speech *service.SpeechService, maxUpload int64) *SpeechHandler {
	return &SpeechHandler{
		transcription: transcription,
		speech:        speech,
		validate:      newValidator(),
		maxUpload:     maxUpload,
	}
}

func (h *SpeechHandler) UploadAndTranscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextutil.LoggerFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Audio file too large")
			return
		}
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(AudioField)
	if err != nil {
		response.BadRequest(w, "Missing audio_file")
		return
	}
	defer file.Close()

	result, err := h.transcription.TranscribeUpload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		logger.Error("Transcription failed", "filename", header.Filename, "error", err)
		response.InternalError(w, transcriptionMessage(err))
		return
	}

	response.Success(w, result)
}

func transcriptionMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrAudioUpload):
		return "Failed to upload audio"
	case errors.Is(err, service.ErrTranscriptionUnavailable):
		return "Failed to start transcription service"
	case errors.Is(err, service.ErrTranscriptionTimeout):
		return "Transcription timed out"
	case errors.Is(err, service.ErrTranscriptionFailed):
		return "Transcription process failed"
	default:
		return "Transcription failed"
	}
}

func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req domain.SynthesisRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	audio, err := h.speech.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		contextutil.LoggerFromContext(r.Context()).Error("Speech synthesis failed", "error", err)
		response.InternalError(w, "Failed to synthesize speech")
		return
	}

	response.Binary(w, "audio/wav", audio)
}
