package storage

import (
	"errors"
	"testing"
)

func TestValidateContainerName(t *testing.T) {
	tests := []struct {
		name      string
		container string
		valid     bool
	}{
		{"simple", "recordings", true},
		{"with hyphen", "qa-recordings-2025", true},
		{"numeric", "batch01", true},
		{"too short", "ab", false},
		{"uppercase", "Recordings", false},
		{"leading hyphen", "-recordings", false},
		{"trailing hyphen", "recordings-", false},
		{"underscore", "qa_recordings", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContainerName(tt.container)
			if tt.valid && err != nil {
				t.Errorf("ValidateContainerName(%q) = %v, want nil", tt.container, err)
			}
			if !tt.valid {
				if err == nil {
					t.Errorf("ValidateContainerName(%q) = nil, want error", tt.container)
				} else if !errors.Is(err, ErrInvalidContainerName) {
					t.Errorf("error %v is not ErrInvalidContainerName", err)
				}
			}
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"call.wav", "audio/wav"},
		{"call.WAV", "audio/wav"},
		{"call.mp3", "audio/mpeg"},
		{"call.m4a", "audio/mp4"},
		{"metadata.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"unknown.bin", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ContentTypeFor(tt.filename); got != tt.expected {
				t.Errorf("ContentTypeFor(%q) = %q, want %q", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestNewService_DisabledWithoutCredentials(t *testing.T) {
	svc, err := NewService(Config{})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if svc != nil {
		t.Error("NewService() with empty config should return nil service")
	}
}
