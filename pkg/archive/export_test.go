package archive

import "time"

// SetClock replaces the time source used for object keys.
func SetClock(s *S3Sink, now func() time.Time) {
	s.now = now
}

// SetRunID replaces the random run id used in object keys.
func SetRunID(s *S3Sink, id string) {
	s.runID = id
}
