package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filestack/filestack-go"
	"github.com/filestack/filestack-go/transform"
	"github.com/filestack/filestack-go/upload"
)

// storeFlags are shared by the upload and storeurl commands.
type storeFlags struct {
	location  string
	container string
	path      string
	region    string
	access    string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.location, "store-location", "", "storage backend: s3, gcs, azure, rackspace, dropbox")
	cmd.Flags().StringVar(&f.container, "store-container", "", "bucket or container name")
	cmd.Flags().StringVar(&f.path, "store-path", "", "key prefix within the container")
	cmd.Flags().StringVar(&f.region, "store-region", "", "storage region")
	cmd.Flags().StringVar(&f.access, "store-access", "", "public or private")
}

func (f *storeFlags) options() upload.StoreOptions {
	return upload.StoreOptions{
		Location:  f.location,
		Container: f.container,
		Path:      f.path,
		Region:    f.region,
		Access:    f.access,
	}
}

func newUploadCommand(flags *cliFlags) *cobra.Command {
	store := &storeFlags{}
	var (
		filename    string
		intelligent bool
		concurrency int
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and print its handle and URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			opts := upload.Options{
				Filename:    filename,
				Intelligent: intelligent,
				Concurrency: concurrency,
			}
			if !quiet {
				opts.OnProgress = func(p upload.Progress) {
					fmt.Fprintf(os.Stderr, "\r%6.1f%% (%d/%d bytes)", p.Percent, p.SentBytes, p.TotalBytes)
				}
				opts.OnRetry = func(e upload.RetryEvent) {
					fmt.Fprintf(os.Stderr, "\nretrying part %d (attempt %d): %v\n", e.Part, e.Attempt, e.Err)
				}
			}

			link, err := client.UploadFile(cmd.Context(), args[0], opts, store.options())
			if !quiet {
				fmt.Fprintln(os.Stderr)
			}
			if err != nil {
				return err
			}

			successf("uploaded %s\n", link.Filename)
			fmt.Printf("handle: %s\nurl:    %s\nsize:   %d\n", link.Handle, link.URL, link.Size)
			return nil
		},
	}

	store.register(cmd)
	cmd.Flags().StringVar(&filename, "filename", "", "filename reported to the service (default: base name)")
	cmd.Flags().BoolVar(&intelligent, "intelligent", false, "use intelligent ingestion (adaptive chunking)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parts in flight (default 3)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}

func newMetadataCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <handle>",
		Short: "Print metadata of a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			md, err := client.Metadata(cmd.Context(), args[0], filestack.MetadataOptions{
				Size:     true,
				Mimetype: true,
				Filename: true,
				Uploaded: true,
				MD5:      true,
			})
			if err != nil {
				return err
			}

			fmt.Printf("filename: %s\nmimetype: %s\nsize:     %d\n", md.Filename, md.Mimetype, md.Size)
			if md.MD5 != "" {
				fmt.Printf("md5:      %s\n", md.MD5)
			}
			if md.Uploaded != 0 {
				fmt.Printf("uploaded: %d\n", md.Uploaded)
			}
			return nil
		},
	}
}

func newRemoveCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <handle>",
		Short: "Delete a stored file (requires a security policy)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}
			if err := client.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			successf("removed %s\n", args[0])
			return nil
		},
	}
}

func newURLCommand(flags *cliFlags) *cobra.Command {
	var (
		width      int
		height     int
		rotate     int
		output     string
		monochrome bool
	)

	cmd := &cobra.Command{
		Use:   "url <handle>",
		Short: "Print a transformation URL for a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			t := client.Transform(args[0])
			if width > 0 || height > 0 {
				t = t.Resize(transform.ResizeParams{Width: width, Height: height})
			}
			if rotate != 0 {
				t = t.Rotate(transform.RotateParams{Degrees: rotate})
			}
			if monochrome {
				t = t.Monochrome()
			}
			if output != "" {
				t = t.Output(transform.OutputParams{Format: output})
			}

			fmt.Println(t.String())
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "resize width")
	cmd.Flags().IntVar(&height, "height", 0, "resize height")
	cmd.Flags().IntVar(&rotate, "rotate", 0, "rotation in degrees")
	cmd.Flags().StringVar(&output, "output", "", "output format, e.g. pdf, png")
	cmd.Flags().BoolVar(&monochrome, "monochrome", false, "convert to monochrome")
	return cmd
}

func newStoreURLCommand(flags *cliFlags) *cobra.Command {
	store := &storeFlags{}
	cmd := &cobra.Command{
		Use:   "storeurl <url>",
		Short: "Ingest an external URL server-side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(flags)
			if err != nil {
				return err
			}

			link, err := client.StoreURL(cmd.Context(), args[0], store.options())
			if err != nil {
				return err
			}

			successf("stored %s\n", link.Filename)
			fmt.Printf("handle: %s\nurl:    %s\n", link.Handle, link.URL)
			return nil
		},
	}
	store.register(cmd)
	return cmd
}

func newLogoutCommand(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate and clear the cached auth session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(flags, filestack.WithSessionCache(true))
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			successf("logged out\n")
			return nil
		},
	}
}
