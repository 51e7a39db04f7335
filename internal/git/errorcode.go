package git

import "fmt"

// ErrorCode is the engine's classification of a failed operation. The set is
// closed: Classify maps every error onto exactly one code.
//
//exhaustive:enforce
type ErrorCode int

const (
	CodeGenericError ErrorCode = iota
	CodeNotFound
	CodeExists
	CodeAmbiguous
	CodeBufSize
	CodeUser
	CodeBareRepo
	CodeUnbornBranch
	CodeUnmerged
	CodeNotFastForward
	CodeInvalidSpec
	CodeConflict
	CodeLocked
	CodeModified
	CodeAuth
	CodeCertificate
	CodeApplied
	CodePeel
	CodeEOF
	CodeInvalid
	CodeUncommitted
	CodeDirectory
	CodeMergeConflict
	CodeHashsumMismatch
	CodeIndexDirty
	CodeApplyFail
	CodeOwner

	// NumCodes is the number of error codes. It is not a valid code.
	NumCodes
)

var codeNames = [...]string{
	CodeGenericError:    "GenericError",
	CodeNotFound:        "NotFound",
	CodeExists:          "Exists",
	CodeAmbiguous:       "Ambiguous",
	CodeBufSize:         "BufSize",
	CodeUser:            "User",
	CodeBareRepo:        "BareRepo",
	CodeUnbornBranch:    "UnbornBranch",
	CodeUnmerged:        "Unmerged",
	CodeNotFastForward:  "NotFastForward",
	CodeInvalidSpec:     "InvalidSpec",
	CodeConflict:        "Conflict",
	CodeLocked:          "Locked",
	CodeModified:        "Modified",
	CodeAuth:            "Auth",
	CodeCertificate:     "Certificate",
	CodeApplied:         "Applied",
	CodePeel:            "Peel",
	CodeEOF:             "Eof",
	CodeInvalid:         "Invalid",
	CodeUncommitted:     "Uncommitted",
	CodeDirectory:       "Directory",
	CodeMergeConflict:   "MergeConflict",
	CodeHashsumMismatch: "HashsumMismatch",
	CodeIndexDirty:      "IndexDirty",
	CodeApplyFail:       "ApplyFail",
	CodeOwner:           "Owner",
}

// Adding a code without naming it (or the reverse) breaks the build here.
var _ = [1]struct{}{}[len(codeNames)-int(NumCodes)]

// Codes returns every valid error code in declaration order.
func Codes() []ErrorCode {
	codes := make([]ErrorCode, 0, NumCodes)
	for c := ErrorCode(0); c < NumCodes; c++ {
		codes = append(codes, c)
	}
	return codes
}

// Valid reports whether c is one of the declared codes.
func (c ErrorCode) Valid() bool {
	return c >= 0 && c < NumCodes
}

func (c ErrorCode) String() string {
	if !c.Valid() || codeNames[c] == "" {
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
	return codeNames[c]
}
