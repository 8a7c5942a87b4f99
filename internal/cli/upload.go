package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jaki95/mixcloud/internal/domain"
	"github.com/jaki95/mixcloud/internal/storage"
	"github.com/jaki95/mixcloud/internal/tracklist"
)

type uploadArgs struct {
	mixFile       string
	name          string
	description   string
	tags          []string
	tracklistFile string
	audio         string
	picture       string
	quiet         bool
}

func uploadSetup(args *globalArgs) *cobra.Command {
	opts := uploadArgs{}

	uploadCommand := &cobra.Command{
		Use:   "upload",
		Short: "Upload a cloudcast",
		Long: `Upload a cloudcast described either by a YAML mix file (--mix) or by flags.
Audio and picture may be local paths or gs://bucket/object names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, positional []string) error {
			return runUpload(cmd, args, &opts)
		},
	}

	flags := uploadCommand.Flags()
	flags.StringVarP(&opts.mixFile, "mix", "m", "", "YAML file describing the mix")
	flags.StringVarP(&opts.name, "name", "n", "", "cloudcast name")
	flags.StringVarP(&opts.description, "description", "d", "", "cloudcast description")
	flags.StringArrayVarP(&opts.tags, "tag", "t", nil, "tag, may be repeated")
	flags.StringVar(&opts.tracklistFile, "tracklist", "", "tracklist table: one 'start | song | artist' line per track")
	flags.StringVarP(&opts.audio, "audio", "a", "", "audio file")
	flags.StringVarP(&opts.picture, "picture", "p", "", "picture file")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not show upload progress")
	uploadCommand.MarkFlagRequired("audio")
	uploadCommand.MarkFlagsMutuallyExclusive("mix", "name")
	uploadCommand.MarkFlagsMutuallyExclusive("mix", "tracklist")

	return uploadCommand
}

func runUpload(cmd *cobra.Command, args *globalArgs, opts *uploadArgs) error {
	ctx := cmd.Context()

	cc, err := opts.cloudcast()
	if err != nil {
		return err
	}

	client, err := args.client(false)
	if err != nil {
		return err
	}
	if !client.Authenticated() {
		return errors.New("an access token is required to upload, see 'mixcloud auth'")
	}

	media := storage.NewRouter(args.cfg.Storage.CredentialsFile)
	defer media.Close()

	audio, err := media.Open(ctx, opts.audio)
	if err != nil {
		return fmt.Errorf("failed to open audio: %w", err)
	}
	defer audio.Close()

	var picture io.Reader
	if opts.picture != "" {
		pictureMedia, err := media.Open(ctx, opts.picture)
		if err != nil {
			return fmt.Errorf("failed to open picture: %w", err)
		}
		defer pictureMedia.Close()
		picture = pictureMedia
	}

	audioReader := io.Reader(audio)
	if !opts.quiet {
		bar := newUploadBar(audio.Size(), audio.Name())
		defer bar.Finish()
		audioReader = &namedReader{Reader: io.TeeReader(audio, bar), name: audio.Name()}
	}

	slog.Debug("Uploading", "audio", opts.audio, "picture", opts.picture, "sections", len(cc.Sections()))
	result, err := client.Upload(ctx, cc, audioReader, picture)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %q (status %d)\n", cc.Name(), result.StatusCode)
	return nil
}

// cloudcast builds the cloudcast to upload from the mix file or the flags.
func (u *uploadArgs) cloudcast() (*domain.Cloudcast, error) {
	if u.mixFile != "" {
		return tracklist.LoadMixFile(u.mixFile)
	}
	if u.name == "" {
		return nil, errors.New("either --mix or --name is required")
	}

	var sections []domain.Section
	if u.tracklistFile != "" {
		file, err := os.Open(u.tracklistFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open tracklist: %w", err)
		}
		defer file.Close()

		if sections, err = tracklist.ParseTable(file); err != nil {
			return nil, err
		}
	}

	return domain.NewCloudcast(domain.CloudcastInfo{
		Key:         domain.Slugify(u.name),
		Name:        u.name,
		Sections:    sections,
		Tags:        u.tags,
		Description: u.description,
	}), nil
}

func newUploadBar(size int64, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		size,
		progressbar.OptionSetWriter(ansi.NewAnsiStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionShowBytes(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Uploading[reset] %s", name)),
	)
}

// namedReader keeps the file name of a wrapped stream visible to Upload.
type namedReader struct {
	io.Reader
	name string
}

func (r *namedReader) Name() string { return r.name }

