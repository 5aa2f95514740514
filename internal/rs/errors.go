package rs

import "errors"

// ErrNegativeColumn is returned by Line.GetCol/SetCol/JoinCols when a
// negative column index is requested (SetCol on a TSV or byte-mode line
// also returns it for any index outside 1..NF()). Per spec this is the only parse-time
// failure the stepper's state machine itself never raises: malformed
// quoting is tolerated silently, but a negative column is a caller error
// and is reported as one.
var ErrNegativeColumn = errors.New("rs: negative column index")

// ErrSetColUnsupported documents (without being returned — see Line.SetCol)
// that CSV columns cannot be set in place. Kept as a named sentinel so
// callers that want to distinguish "no-op" from "unsupported" in logs have
// something to errors.Is against, even though SetCol itself returns nil for
// CSV by design (see DESIGN.md, Open Question 3).
var ErrSetColUnsupported = errors.New("rs: set-column is a no-op for CSV lines")

// ErrInputTooLarge is returned by LineReader.ReadLine once the reader has
// consumed WithMaxInputSize's configured bound of bytes from its source.
var ErrInputTooLarge = errors.New("rs: input exceeds configured maximum size")
