package clip

import "testing"

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"clip.mp4", true},
		{"clip.MOV", true},
		{"clip.mkv", true},
		{"clip.webm", true},
		{"clip.m4v", true},
		{"clip.avi", true},
		{"notes.txt", false},
		{"clip.mp3", false},
		{"clip", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsVideoFile(tt.name); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidateImportFile(t *testing.T) {
	const maxBytes = 500 * 1024 * 1024

	tests := []struct {
		name    string
		file    string
		size    int64
		wantErr bool
	}{
		{"valid mp4", "clip.mp4", 1024, false},
		{"at size cap", "clip.mp4", maxBytes, false},
		{"over size cap", "clip.mp4", maxBytes + 1, true},
		{"empty file", "clip.mp4", 0, true},
		{"wrong extension", "clip.gif", 1024, true},
		{"uppercase ok", "CLIP.MP4", 1024, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImportFile(tt.file, tt.size, maxBytes)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImportFile(%q, %d) error = %v, wantErr %v", tt.file, tt.size, err, tt.wantErr)
			}
		})
	}
}
