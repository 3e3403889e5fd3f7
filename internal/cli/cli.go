// Package cli provides the command line interface of the wrapper.
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fepegar/dcm2niiw/internal/config"
	"github.com/fepegar/dcm2niiw/internal/convert"
	"github.com/fepegar/dcm2niiw/internal/logx"
	"github.com/fepegar/dcm2niiw/internal/options"
)

const (
	binaryName = "dcm2niix"

	rootUse   = "dcm2niiw IN_FOLDER [dcm2niix args...]"
	rootShort = "Convert DICOM series with dcm2niix"
	rootLong  = `dcm2niiw translates friendly options into dcm2niix's short-flag grammar,
runs the converter, and republishes its output as structured log lines.

Anything placed after IN_FOLDER is passed to dcm2niix verbatim, so flags
this wrapper does not know about still reach the converter. Wrapper flags
must come before IN_FOLDER.`

	filenameFormatHelp = "filename template (%a=antenna (coil) name, %b=basename, " +
		"%c=comments, %d=description, %e=echo number, %f=folder name, " +
		"%g=accession number, %i=ID of patient, %j=seriesInstanceUID, " +
		"%k=studyInstanceUID, %m=manufacturer, %n=name of patient, " +
		"%o=mediaObjectInstanceUID, %p=protocol, %r=instance number, " +
		"%s=series number, %t=time, %u=acquisition number, %v=vendor, " +
		"%x=study ID, %z=sequence name)"
)

// Execute runs the wrapper. The returned error has already been reported to
// the user; callers only need to translate it into a non-zero exit.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	var (
		compress         bool
		compressionLevel int
		adjacent         bool
		comment          string
		depth            int
		exportFormat     string
		filenameFormat   string
		ignore           bool
		outFolder        string
		outFile          string
		writeBehavior    string
		printHelp        bool
		logLevel         string
		verbosity        int
		noColor          bool
		binPath          string
	)

	cmd := &cobra.Command{
		Use:          rootUse,
		Short:        rootShort,
		Long:         rootLong,
		Version:      version,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, _ := cmd.Flags().GetBool("help"); ok {
				return cmd.Help()
			}

			cfg, cfgPath, err := config.Read()
			if err != nil {
				return fmt.Errorf("read config %s: %w", cfgPath, err)
			}
			applyConfigDefaults(cmd, cfg, &compress, &compressionLevel, &depth,
				&exportFormat, &filenameFormat, &writeBehavior, &logLevel, &binPath)

			level, known := logx.ParseLevel(logLevel)
			logger := logx.New(logx.Config{Out: os.Stderr, Level: level, NoColor: noColor})
			if !known {
				logger.Warnf("invalid log level %s, defaulting to debug", logLevel)
			}

			bin, err := resolveBinary(binPath)
			if err != nil {
				return err
			}
			converter := convert.New(logger, bin)

			if printHelp {
				return converter.PrintHelp(cmd.Context())
			}
			if len(args) == 0 {
				return fmt.Errorf("missing IN_FOLDER argument")
			}

			opts := options.Defaults()
			opts.InFolder = args[0]
			opts.ExtraArgs = args[1:]
			opts.Compress = compress
			opts.CompressionLevel = compressionLevel
			opts.Adjacent = adjacent
			opts.Depth = depth
			opts.FilenameFormat = filenameFormat
			opts.Ignore = ignore
			opts.OutFolder = outFolder
			opts.OutFile = outFile
			opts.Verbosity = verbosity
			if cmd.Flags().Changed("comment") {
				opts.Comment = &comment
			}
			if opts.ExportFormat, err = options.ParseFormat(exportFormat); err != nil {
				return err
			}
			if opts.WriteBehavior, err = options.ParseWriteBehavior(writeBehavior); err != nil {
				return err
			}
			if outFolder != "" && outFile != "" {
				return fmt.Errorf("--out-folder and --out-file are mutually exclusive")
			}
			if err := checkInFolder(opts.InFolder); err != nil {
				return err
			}

			return converter.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.BoolVarP(&compress, "compress", "z", options.DefaultCompress, "gzip the output images")
	flags.IntVar(&compressionLevel, "compression-level", options.DefaultCompressionLevel,
		"gunzip compression level (1=fastest..9=smallest)")
	flags.BoolVarP(&adjacent, "adjacent", "a", false,
		"assume adjacent DICOMs (images from same series always in same folder) for faster conversion")
	flags.StringVarP(&comment, "comment", "c", "",
		fmt.Sprintf("comment to store in NIfTI aux_file (up to %d characters, empty to anonymize)", options.MaxCommentLength))
	flags.IntVarP(&depth, "depth", "d", options.DefaultDepth,
		"directory search depth (convert DICOMs in sub-folders of IN_FOLDER?)")
	flags.StringVarP(&exportFormat, "export-format", "e", "NIfTI",
		"output file format: NRRD, MGH, JSON/JNIfTI, BJNIfTI or NIfTI")
	flags.StringVarP(&filenameFormat, "filename-format", "f", options.DefaultFilenameFormat, filenameFormatHelp)
	flags.BoolVarP(&ignore, "ignore", "i", false, "ignore derived, localizer and 2D images")
	flags.StringVarP(&outFolder, "out-folder", "o", "", "output directory (omit to save to input folder)")
	flags.StringVar(&outFile, "out-file", "", "output file path (sets depth to 0 and replaces out-folder)")
	flags.StringVarP(&writeBehavior, "write-behavior", "w", "overwrite",
		"behavior when output file already exists: skip, overwrite or suffix")
	flags.BoolVarP(&printHelp, "print-help", "h", false, "print the dcm2niix help message and exit")
	flags.StringVar(&logLevel, "log", "debug", "log level: debug, info, warning or error")
	flags.CountVarP(&verbosity, "verbose", "v", "dcm2niix verbosity, repeat to increase")
	flags.BoolVar(&noColor, "no-color", false, "disable colorized logs")
	flags.StringVar(&binPath, "bin", "", "path to the dcm2niix binary")

	// Claim the long help flag ourselves so -h stays free for --print-help,
	// matching the wrapped tool's convention.
	flags.Bool("help", false, "help for dcm2niiw")

	return cmd
}

// applyConfigDefaults overrides built-in defaults with values from the
// defaults file for every flag the user did not set explicitly.
func applyConfigDefaults(cmd *cobra.Command, cfg config.File,
	compress *bool, compressionLevel, depth *int,
	exportFormat, filenameFormat, writeBehavior, logLevel, binPath *string,
) {
	changed := cmd.Flags().Changed
	if cfg.Compress != nil && !changed("compress") {
		*compress = *cfg.Compress
	}
	if cfg.CompressionLevel != nil && !changed("compression-level") {
		*compressionLevel = *cfg.CompressionLevel
	}
	if cfg.Depth != nil && !changed("depth") {
		*depth = *cfg.Depth
	}
	if cfg.ExportFormat != "" && !changed("export-format") {
		*exportFormat = cfg.ExportFormat
	}
	if cfg.FilenameFormat != "" && !changed("filename-format") {
		*filenameFormat = cfg.FilenameFormat
	}
	if cfg.WriteBehavior != "" && !changed("write-behavior") {
		*writeBehavior = cfg.WriteBehavior
	}
	if cfg.LogLevel != "" && !changed("log") {
		*logLevel = cfg.LogLevel
	}
	if cfg.Binary != "" && !changed("bin") {
		*binPath = cfg.Binary
	}
}

// resolveBinary finds the dcm2niix executable: explicit flag or config value
// first, then the DCM2NIIX_BIN environment variable, then PATH.
func resolveBinary(binPath string) (string, error) {
	if p := strings.TrimSpace(binPath); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(os.Getenv("DCM2NIIX_BIN")); p != "" {
		return p, nil
	}
	p, err := exec.LookPath(binaryName)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH; install it or point --bin or DCM2NIIX_BIN at it", binaryName)
	}
	return p, nil
}

func checkInFolder(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input folder %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input folder %s is not a directory", path)
	}
	return nil
}
