package probe

// AudioTrack holds the parsed properties of a single audio stream.
type AudioTrack struct {
	Index      int
	Codec      string
	BitRate    int64
	Channels   int
	SampleRate int
	Language   string
}

// MediaInfo is the fully parsed output of a single ffprobe JSON call.
type MediaInfo struct {
	Duration    float64 // seconds
	FPS         float64
	Width       int
	Height      int
	Codec       string
	BitRate     int64 // bits/sec, container level
	Format      string
	AudioTracks []AudioTrack
}

// HasVideo reports whether a video stream with usable dimensions was found.
func (m *MediaInfo) HasVideo() bool {
	return m.Width > 0 && m.Height > 0
}

// Aspect returns width/height, or 0 when dimensions are unknown.
func (m *MediaInfo) Aspect() float64 {
	if m.Height <= 0 {
		return 0
	}
	return float64(m.Width) / float64(m.Height)
}
