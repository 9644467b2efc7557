package media

// Each operation distinguishes "subprocess could not start" (environment
// or configuration error, fatal to the caller) from "subprocess ran and
// reported failure" (recoverable, surfaced as a retryable error). Spawn
// carries that distinction.

// ProbeError reports a failed metadata probe.
type ProbeError struct {
	Message string
	Spawn   bool
}

func (e *ProbeError) Error() string {
	return "probe failed: " + e.Message
}

// ExportError reports a failed re-encode.
type ExportError struct {
	Message string
	Spawn   bool
}

func (e *ExportError) Error() string {
	return "export failed: " + e.Message
}

// SceneDetectionError reports a failed scene-change scan.
type SceneDetectionError struct {
	Message string
	Spawn   bool
}

func (e *SceneDetectionError) Error() string {
	return "scene detection failed: " + e.Message
}

// AudioExtractionError reports a failed audio extraction.
type AudioExtractionError struct {
	Message string
	Spawn   bool
}

func (e *AudioExtractionError) Error() string {
	return "audio extraction failed: " + e.Message
}

// IsSpawnFailure reports whether err is a media error caused by the
// subprocess failing to start at all.
func IsSpawnFailure(err error) bool {
	switch e := err.(type) {
	case *ProbeError:
		return e.Spawn
	case *ExportError:
		return e.Spawn
	case *SceneDetectionError:
		return e.Spawn
	case *AudioExtractionError:
		return e.Spawn
	}
	return false
}
