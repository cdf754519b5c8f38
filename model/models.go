package model

// All lists every table the engine migrates.
func All() []interface{} {
	return []interface{}{
		&Participant{},
		&ProgressRecord{},
		&GamificationRecord{},
		&Session{},
		&VideoRun{},
		&Event{},
	}
}
