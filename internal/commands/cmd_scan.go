package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/printer"
	"github.com/hay-kot/textsnap/internal/styles"
)

type ScanCmd struct {
	flags *Flags

	// Command-specific flags
	copy  bool
	frame string
}

// NewScanCmd creates a new scan command
func NewScanCmd(flags *Flags) *ScanCmd {
	return &ScanCmd{flags: flags}
}

// Register adds the scan command to the application
func (cmd *ScanCmd) Register(app *cli.Command) *cli.Command {
	copyFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "copy",
			Usage:       "copy the recognized text to the clipboard",
			Destination: &cmd.copy,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "scan",
		Usage:     "Recognize text in an image",
		UsageText: "textsnap scan <gallery|camera|file> [options]",
		Description: `Acquires an image, recognizes its text and records the result in history.

Only one image is processed at a time. Cancelling a picker or prompt exits
without changing anything.`,
		Commands: []*cli.Command{
			{
				Name:      "gallery",
				Usage:     "Pick an image from the pictures directory",
				UsageText: "textsnap scan gallery [--copy]",
				Flags:     []cli.Flag{copyFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.run(ctx, c, cmd.flags.GallerySource())
				},
			},
			{
				Name:      "camera",
				Usage:     "Capture a frame with the camera",
				UsageText: "textsnap scan camera [--frame <image>] [--copy]",
				Description: `Runs capture.camera_command to take one frame, crops it to
capture.aspect_ratio and re-encodes it as JPEG. --frame uses an existing image
as the captured frame.`,
				Flags: []cli.Flag{
					copyFlag(),
					&cli.StringFlag{
						Name:        "frame",
						Usage:       "use an existing image instead of running the camera command",
						Destination: &cmd.frame,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.run(ctx, c, cmd.flags.CameraSource(cmd.frame))
				},
			},
			{
				Name:      "file",
				Usage:     "Open an image file",
				UsageText: "textsnap scan file [path] [--copy]",
				Flags:     []cli.Flag{copyFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.run(ctx, c, cmd.flags.FileSource(c.Args().First()))
				},
			},
		},
	})

	return app
}

func (cmd *ScanCmd) run(ctx context.Context, c *cli.Command, src capture.Source) error {
	p := printer.Ctx(ctx)

	res, err := cmd.flags.Pipeline.Run(ctx, src)
	if err != nil {
		if errors.Is(err, capture.ErrCancelled) {
			cmd.flags.Logger.Debug().Str("source", src.Name()).Msg("scan cancelled")
			return nil
		}
		p.Notice(err)
		return cli.Exit("", 1)
	}

	writeResult(c.Root().Writer, res.Text, res.ImageURI)

	if cmd.copy {
		if err := clipboard.WriteAll(res.Text); err != nil {
			p.Warnf("copy to clipboard: %v", err)
		} else {
			p.Successf("Copied to clipboard")
		}
	}

	return nil
}

// writeResult renders recognized text the way the result screen shows it.
func writeResult(w io.Writer, text, imageURI string) {
	var b strings.Builder
	b.WriteString(styles.LabelStyle.Render("RECOGNIZED TEXT"))
	b.WriteString("\n")
	b.WriteString(styles.ResultBoxStyle.Render(text))
	b.WriteString("\n")
	if imageURI != "" {
		b.WriteString(styles.DividerStyle.Render(filepath.Base(imageURI)))
		b.WriteString("\n")
	}
	_, _ = fmt.Fprint(w, b.String())
}
