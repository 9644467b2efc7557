package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/clipforge/clipforge-agent/internal/library"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := validate.Struct(req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		if _, ok := cfg.Store.GetClip(req.ClipID); !ok {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}

		if req.OutputPath != "" {
			if err := validateOutputDir(req.OutputPath); err != nil {
				WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
				return
			}
		}

		result := cfg.Service.Export(r.Context(), library.ExportRequest{
			ClipID:     req.ClipID,
			OutputPath: req.OutputPath,
			Quality:    req.Quality,
		}, nil)

		if !result.Success {
			WriteError(w, http.StatusUnprocessableEntity, result.Error, "EXPORT_FAILED")
			return
		}

		WriteJSON(w, http.StatusOK, result)
	}
}

func exportTimelineHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimelineExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := validate.Struct(req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		if len(cfg.Store.TimelineClips()) == 0 {
			WriteError(w, http.StatusBadRequest, "timeline is empty", "BAD_REQUEST")
			return
		}

		if req.OutputPath != "" {
			if err := validateOutputDir(req.OutputPath); err != nil {
				WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
				return
			}
		}

		result := cfg.Service.ExportTimeline(r.Context(), req.OutputPath, req.Quality, nil)
		if !result.Success {
			WriteError(w, http.StatusUnprocessableEntity, result.Error, "EXPORT_FAILED")
			return
		}

		WriteJSON(w, http.StatusOK, result)
	}
}

// validateOutputDir checks that the parent directory of an output path
// exists before a long encode is started.
func validateOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path parent is not a directory: %s", dir)
	}
	return nil
}
