package judge

import "fmt"

// JudgeError reports a failed or unusable classification or rephrase call.
type JudgeError struct {
	Op  string // "classify" or "rephrase"
	Err error
}

func (e *JudgeError) Error() string {
	return fmt.Sprintf("judge %s: %v", e.Op, e.Err)
}

func (e *JudgeError) Unwrap() error { return e.Err }
