package brightcove

// Source is one entry of the "sources" array of a playback response.
type Source struct {
	Src        string
	Type       string
	Container  string
	Codec      string
	Width      int64
	Height     int64
	AvgBitrate int64
	Size       int64
	Duration   int64 // ms
	Protected  bool  // carries key_systems
}

type PlaybackError struct {
	Code    string
	Subcode string
	Message string
}
