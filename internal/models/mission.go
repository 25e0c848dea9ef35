package models

// MissionInfo carries the global properties of a recording. Field names use
// the recorder's own property casing because the JSON export passes them
// through unchanged.
type MissionInfo struct {
	Title         string `json:"Title"`
	ReferenceTime string `json:"ReferenceTime"`
	RecordingTime string `json:"RecordingTime,omitempty"`
	Author        string `json:"Author,omitempty"`
	DataSource    string `json:"DataSource,omitempty"`
	DataRecorder  string `json:"DataRecorder,omitempty"`
	TimeFrames    int    `json:"TimeFrames"`
	Objects       int    `json:"Objects"`
}
