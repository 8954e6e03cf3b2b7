// errors.go - typed error values for the dispositions in spec section 7.
//
// grounded on IntuitionAmiga-IntuitionEngine's video_interface.go VideoError
// pattern: small structs carrying just enough context to log or match on,
// rather than opaque fmt.Errorf strings, for error kinds callers may want to
// branch on with errors.As.

package ntcpycon

import "fmt"

// MalformedJSONError wraps a JSON decode failure from an OCR payload.
// Disposition: log, drop the frame, keep reading (spec section 7).
type MalformedJSONError struct {
	Raw   []byte
	Cause error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed OCR json (%d bytes): %v", len(e.Raw), e.Cause)
}

func (e *MalformedJSONError) Unwrap() error { return e.Cause }

// ShortReadError indicates a hardware link response or a capture-file frame
// shorter than its expected length. It is returned to the caller, which
// stops the receiver.
type ShortReadError struct {
	Want, Got int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("short read: wanted %d bytes, got %d", e.Want, e.Got)
}

// DroppedFramesError reports a gap in the hardware link's frame counter.
// Disposition: log a warning with the dropped range, keep polling.
type DroppedFramesError struct {
	From, To uint16
}

func (e *DroppedFramesError) Error() string {
	count := int(e.To) - int(e.From)
	if count < 0 {
		count += 1 << 16
	}
	return fmt.Sprintf("dropped %d frame(s): %d to %d", count, e.From, e.To-1)
}

// InvalidHeaderXorError indicates a compact hardware frame's header/footer
// pair failed the header XOR footer == 0xFFFF check. Disposition: log a
// warning, drop the frame.
type InvalidHeaderXorError struct {
	Header, Footer uint16
}

func (e *InvalidHeaderXorError) Error() string {
	return fmt.Sprintf("invalid compact frame header/footer: %#04x ^ %#04x != 0xffff", e.Header, e.Footer)
}

// UnexpectedPlaystateError is raised by the GymMemory reducer when asked to
// render a playstate it does not recognize. Disposition: fail the receiver
// task (it is returned rather than logged and swallowed, as FileExistsError
// is at sender startup).
type UnexpectedPlaystateError struct {
	Playstate byte
}

func (e *UnexpectedPlaystateError) Error() string {
	return fmt.Sprintf("unexpected playstate %d", e.Playstate)
}

// FileExistsError is raised at FileWriter/capture-file-sender startup when
// the target path already exists and overwrite was not requested.
// Disposition: fatal at startup.
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("%s exists and overwrite flag is not set", e.Path)
}
