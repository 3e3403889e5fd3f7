// Package options models the user-facing conversion options and their
// deterministic mapping onto dcm2niix's short-flag grammar.
package options

import (
	"fmt"
	"strconv"
	"strings"
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Format is the output file format produced by dcm2niix.
type Format int

const (
	FormatNIfTI Format = iota
	FormatNRRD
	FormatMGH
	FormatJSONNIfTI
	FormatBJNIfTI
)

// ParseFormat resolves a case-insensitive format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch normalize(s) {
	case "nifti":
		return FormatNIfTI, nil
	case "nrrd":
		return FormatNRRD, nil
	case "mgh":
		return FormatMGH, nil
	case "json/jnifti", "json", "jnifti":
		return FormatJSONNIfTI, nil
	case "bjnifti":
		return FormatBJNIfTI, nil
	}
	return 0, fmt.Errorf("unknown export format %q (want NRRD, MGH, JSON/JNIfTI, BJNIfTI or NIfTI)", s)
}

func (f Format) String() string {
	switch f {
	case FormatNIfTI:
		return "NIfTI"
	case FormatNRRD:
		return "NRRD"
	case FormatMGH:
		return "MGH"
	case FormatJSONNIfTI:
		return "JSON/JNIfTI"
	case FormatBJNIfTI:
		return "BJNIfTI"
	}
	return "unknown"
}

// code returns the single-character value dcm2niix expects after -e.
func (f Format) code() string {
	switch f {
	case FormatNRRD:
		return "y"
	case FormatMGH:
		return "m"
	case FormatJSONNIfTI:
		return "j"
	case FormatBJNIfTI:
		return "b"
	case FormatNIfTI:
		return "n"
	}
	panic(fmt.Sprintf("options: no dcm2niix code for format %d", int(f)))
}

// WriteBehavior selects what dcm2niix does when an output file already exists.
type WriteBehavior int

const (
	WriteOverwrite WriteBehavior = iota
	WriteSkip
	WriteSuffix
)

// ParseWriteBehavior resolves a case-insensitive name to a WriteBehavior.
func ParseWriteBehavior(s string) (WriteBehavior, error) {
	switch normalize(s) {
	case "skip":
		return WriteSkip, nil
	case "overwrite":
		return WriteOverwrite, nil
	case "suffix":
		return WriteSuffix, nil
	}
	return 0, fmt.Errorf("unknown write behavior %q (want skip, overwrite or suffix)", s)
}

func (w WriteBehavior) String() string {
	switch w {
	case WriteSkip:
		return "skip"
	case WriteOverwrite:
		return "overwrite"
	case WriteSuffix:
		return "suffix"
	}
	return "unknown"
}

// code returns the integer value dcm2niix expects after -w.
func (w WriteBehavior) code() string {
	switch w {
	case WriteSkip:
		return "0"
	case WriteOverwrite:
		return "1"
	case WriteSuffix:
		return "2"
	}
	panic(fmt.Sprintf("options: no dcm2niix code for write behavior %d", int(w)))
}

const (
	// MaxCommentLength is the aux_file capacity in the NIfTI header.
	MaxCommentLength = 24
	// MaxVerbosity is the highest -v value dcm2niix understands.
	MaxVerbosity = 2

	DefaultCompress         = true
	DefaultCompressionLevel = 6
	DefaultDepth            = 5
	DefaultFilenameFormat   = "%f_%p_%t_%s"
)

// Options carries one invocation's worth of validated conversion settings.
// The zero value is not usable; start from Defaults.
type Options struct {
	InFolder         string
	Compress         bool
	CompressionLevel int
	Adjacent         bool
	Comment          *string
	Depth            int
	ExportFormat     Format
	FilenameFormat   string
	Ignore           bool
	OutFolder        string
	OutFile          string
	WriteBehavior    WriteBehavior
	Verbosity        int
	ExtraArgs        []string
}

// Defaults returns Options preloaded with the wrapper's defaults.
func Defaults() Options {
	return Options{
		Compress:         DefaultCompress,
		CompressionLevel: DefaultCompressionLevel,
		Depth:            DefaultDepth,
		ExportFormat:     FormatNIfTI,
		FilenameFormat:   DefaultFilenameFormat,
		WriteBehavior:    WriteOverwrite,
	}
}

// ValidationError reports malformed caller input, detected before any
// subprocess is spawned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks ranges and the comment length. It never mutates or
// truncates; oversized comments are rejected outright.
func (o Options) Validate() error {
	if o.Comment != nil && len(*o.Comment) > MaxCommentLength {
		return &ValidationError{
			Field:  "comment",
			Reason: fmt.Sprintf("length (%d) exceeds maximum of %d characters", len(*o.Comment), MaxCommentLength),
		}
	}
	if o.Compress && (o.CompressionLevel < 1 || o.CompressionLevel > 9) {
		return &ValidationError{
			Field:  "compression level",
			Reason: fmt.Sprintf("%d is outside 1..9", o.CompressionLevel),
		}
	}
	if o.Depth < 0 || o.Depth > 9 {
		return &ValidationError{
			Field:  "depth",
			Reason: fmt.Sprintf("%d is outside 0..9", o.Depth),
		}
	}
	return nil
}

// ClampedVerbosity returns the verbosity capped at MaxVerbosity.
func (o Options) ClampedVerbosity() int {
	if o.Verbosity > MaxVerbosity {
		return MaxVerbosity
	}
	return o.Verbosity
}

// Args maps the options onto dcm2niix's argument list. depth and outFolder
// are passed in explicitly because a single-file output request rewrites
// both before invocation. Extra args always trail the positional input
// folder, verbatim and in order.
func (o Options) Args(depth int, outFolder string) []string {
	args := []string{
		"-a", yn(o.Adjacent),
		"-d", strconv.Itoa(depth),
		"-e", o.ExportFormat.code(),
		"-f", o.FilenameFormat,
		"-i", yn(o.Ignore),
		"-v", strconv.Itoa(o.ClampedVerbosity()),
		"-z", yn(o.Compress),
		"-w", o.WriteBehavior.code(),
	}
	if o.Compress {
		args = append(args, "-"+strconv.Itoa(o.CompressionLevel))
	}
	if o.Comment != nil {
		args = append(args, "-c", *o.Comment)
	}
	if outFolder != "" {
		args = append(args, "-o", outFolder)
	}
	args = append(args, o.InFolder)
	args = append(args, o.ExtraArgs...)
	return args
}

func yn(v bool) string {
	if v {
		return "y"
	}
	return "n"
}
