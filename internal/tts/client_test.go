package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Synthesize(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt ")

	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantErr    bool
	}{
		{
			name: "audio returned",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/text:synthesize" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if r.Header.Get("X-Goog-Api-Key") != "key" {
					t.Error("missing api key header")
				}

				var req synthesizeRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Input.Text != "hello" || req.Voice.Name != "en-US-Standard-B" ||
					req.Voice.LanguageCode != "en-US" || req.AudioConfig.AudioEncoding != "LINEAR16" {
					t.Errorf("request = %+v", req)
				}

				_ = json.NewEncoder(w).Encode(synthesizeResponse{AudioContent: base64.StdEncoding.EncodeToString(audio)})
			},
		},
		{
			name: "vendor error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantErr: true,
		},
		{
			name: "corrupt audio",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"audioContent":"%%%"}`))
			},
			wantErr: true,
		},
		{
			name: "empty audio",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"audioContent":""}`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			c := NewClient(server.URL, "key", server.Client())
			got, err := c.Synthesize(context.Background(), "hello", "en-US-Standard-B")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Synthesize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != string(audio) {
				t.Errorf("Synthesize() = %q", got)
			}
		})
	}
}
