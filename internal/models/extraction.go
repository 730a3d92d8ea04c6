package models

import (
	"time"

	"github.com/google/uuid"
)

// CodePolicy selects how barcode lengths are requested from the model and
// checked by the validator.
type CodePolicy string

const (
	// CodePolicyFixed13 forces every code to exactly 13 digits, trimming
	// excess leading digits.
	CodePolicyFixed13 CodePolicy = "fixed13"
	// CodePolicyNative accepts 8, 9 and 13 digit codes and trims 14/15 digit
	// misreads back to 13.
	CodePolicyNative CodePolicy = "native"
)

func (p CodePolicy) Valid() bool {
	return p == CodePolicyFixed13 || p == CodePolicyNative
}

// AcceptsLength reports whether a code of n digits satisfies the policy.
func (p CodePolicy) AcceptsLength(n int) bool {
	switch p {
	case CodePolicyNative:
		return n == 8 || n == 9 || n == 13
	default:
		return n == 13
	}
}

// Instruction is the fixed prompt sent ahead of the document.
type Instruction struct {
	Version string
	Policy  CodePolicy
	Text    string
}

// ModelHandle identifies the resolved hosted model.
type ModelHandle struct {
	Provider string
	Name     string
	// Fallback is set when no enumerated model matched and the configured
	// default was used.
	Fallback bool
}

func (h ModelHandle) String() string {
	return h.Provider + "/" + h.Name
}

type Record struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// Deviation is a non-empty output line that does not follow the code|value grammar.
type Deviation struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type ParseReport struct {
	Records    []Record    `json:"records"`
	Deviations []Deviation `json:"deviations"`
}

func (r ParseReport) Clean() bool {
	return len(r.Deviations) == 0
}

type ExtractionResult struct {
	ID          uuid.UUID
	FileName    string
	Kind        MediaKind
	Model       ModelHandle
	Instruction string
	Text        string
	Report      ParseReport
	Duration    time.Duration
	CreatedAt   time.Time
}
