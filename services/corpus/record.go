package corpus

import "fmt"

// SpeechRecord is one speech cut out of a stenoprotocol transcript.
// Date stays a string, it is carried for traceability and nothing ever
// does arithmetic on it.
type SpeechRecord struct {
	FileID  string
	Anchor  string
	Date    string
	Speaker string
	Body    string
}

// String renders the record in the flat on-disk format the speech
// corpus is stored in. Records parses it back.
func (r SpeechRecord) String() string {
	return fmt.Sprintf(
		"File: %s\nAnchor: %s\nDate: %s\nSpeaker: %s\n\nSpeech:\n%s\n",
		r.FileID, r.Anchor, r.Date, r.Speaker, r.Body,
	)
}
