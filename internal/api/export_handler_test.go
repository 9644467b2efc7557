package api

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/media"
)

func TestExport_Success(t *testing.T) {
	env := newTestEnv(t)
	id := env.store.AddClip(clip.Clip{Name: "a.mp4", Path: "/videos/a.mp4", Duration: 10})
	env.store.SetTrimStart(id, 2)
	env.store.SetTrimEnd(id, 8)

	rr := env.do(t, http.MethodPost, "/exports", ExportRequest{ClipID: id, Quality: "high"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONBody(t, rr)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if body["job_id"] == "" {
		t.Error("job_id missing")
	}

	if len(env.stub.ExportJobs) != 1 {
		t.Fatalf("export jobs = %d, want 1", len(env.stub.ExportJobs))
	}
	job := env.stub.ExportJobs[0]
	if job.StartTime != 2 || job.Duration != 6 {
		t.Errorf("bounds = [%v, %v], want [2, 6]", job.StartTime, job.Duration)
	}
}

func TestExport_EncoderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.stub.ExportErr = &media.ExportError{Message: "encoder exited 1"}
	id := env.store.AddClip(clip.Clip{Name: "a.mp4", Path: "/videos/a.mp4", Duration: 10})

	rr := env.do(t, http.MethodPost, "/exports", ExportRequest{ClipID: id})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	body := decodeJSONBody(t, rr)
	if body["error"] != "encoder exited 1" {
		t.Errorf("error = %v, want encoder message passed through", body["error"])
	}
}

func TestExport_UnknownClip(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/exports", ExportRequest{ClipID: "nope"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestExport_InvalidQuality(t *testing.T) {
	env := newTestEnv(t)
	id := env.store.AddClip(clip.Clip{Name: "a.mp4", Path: "/videos/a.mp4", Duration: 10})

	rr := env.do(t, http.MethodPost, "/exports", ExportRequest{ClipID: id, Quality: "ultra"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestExport_MissingOutputDir(t *testing.T) {
	env := newTestEnv(t)
	id := env.store.AddClip(clip.Clip{Name: "a.mp4", Path: "/videos/a.mp4", Duration: 10})

	rr := env.do(t, http.MethodPost, "/exports", ExportRequest{
		ClipID:     id,
		OutputPath: "/nonexistent/dir/out.mp4",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestExportTimeline_Success(t *testing.T) {
	env := newTestEnv(t)
	a := env.store.AddClip(clip.Clip{Name: "a.mp4", Path: "/videos/a.mp4", Duration: 10})
	b := env.store.AddClip(clip.Clip{Name: "b.mp4", Path: "/videos/b.mp4", Duration: 6})
	env.store.AddToTimeline(a)
	env.store.AddToTimeline(b)

	out := filepath.Join(t.TempDir(), "final.mp4")
	rr := env.do(t, http.MethodPost, "/exports/timeline", TimelineExportRequest{OutputPath: out})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONBody(t, rr)
	if body["output_path"] != out {
		t.Errorf("output_path = %v, want %s", body["output_path"], out)
	}
	if len(env.stub.ExportJobs) != 2 {
		t.Errorf("segment exports = %d, want 2", len(env.stub.ExportJobs))
	}
}

func TestExportTimeline_Empty(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/exports/timeline", TimelineExportRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
