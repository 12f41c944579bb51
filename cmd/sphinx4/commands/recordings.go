package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/presentformyfriends/sphinx4/pkg/cli"
	"github.com/presentformyfriends/sphinx4/pkg/export"
)

var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "Manage archived recordings",
}

var recordingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recordings, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.List(cmd.Context())
		if err != nil {
			return err
		}
		if outputJSON {
			return cli.Output(os.Stdout, recs, cli.FormatJSON)
		}
		if len(recs) == 0 {
			fmt.Println(styles.Dim.Render("no recordings"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, styles.Label.Render("ID\tCREATED\tDURATION\tSIZE\tFORMAT"))
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				cli.FormatDuration(r.Duration),
				cli.FormatBytes(r.Bytes),
				r.Format())
		}
		return w.Flush()
	},
}

var recordingsInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show one recording's metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return cli.Output(os.Stdout, rec, outputFormat())
	},
}

var (
	exportDir  string
	exportToS3 bool
)

var recordingsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a recording as a WAV file",
	Long: `Export a recording as a WAV file.

By default the file is written to the local export directory (--to, or
export.dir in the config, or the working directory). With --s3 it is
uploaded to the bucket configured under export.s3 instead; AWS credentials
come from the usual environment or shared config.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		rec, err := s.Get(ctx, args[0])
		if err != nil {
			return err
		}
		data, err := s.PCM(ctx, rec.ID)
		if err != nil {
			return err
		}

		sink, where, err := exportSink(ctx)
		if err != nil {
			return err
		}
		name, err := export.WAV(ctx, sink, rec, data)
		if err != nil {
			return err
		}
		fmt.Println(styles.Label.Render("exported"), name, styles.Dim.Render("→ "+where))
		return nil
	},
}

// exportSink builds the destination selected by flags and config.
func exportSink(ctx context.Context) (export.Sink, string, error) {
	if exportToS3 {
		s3cfg := globalConfig.Export.S3
		if s3cfg == nil || s3cfg.Bucket == "" {
			return nil, "", fmt.Errorf("--s3 requires export.s3.bucket in the config")
		}
		var opts []func(*awsconfig.LoadOptions) error
		if s3cfg.Region != "" {
			opts = append(opts, awsconfig.WithRegion(s3cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, "", fmt.Errorf("load AWS config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg)
		return export.NewBucket(client, s3cfg.Bucket, s3cfg.Prefix), "s3://" + s3cfg.Bucket, nil
	}

	dir := exportDir
	if dir == "" {
		dir = globalConfig.Export.Dir
	}
	if dir == "" {
		dir = "."
	}
	sink, err := export.NewDir(dir)
	if err != nil {
		return nil, "", err
	}
	return sink, dir, nil
}

var recordingsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println(styles.Warn.Render("deleted"), args[0])
		return nil
	},
}

func init() {
	recordingsExportCmd.Flags().StringVar(&exportDir, "to", "", "local export directory")
	recordingsExportCmd.Flags().BoolVar(&exportToS3, "s3", false, "upload to the configured S3 bucket")

	recordingsCmd.AddCommand(recordingsListCmd)
	recordingsCmd.AddCommand(recordingsInfoCmd)
	recordingsCmd.AddCommand(recordingsExportCmd)
	recordingsCmd.AddCommand(recordingsDeleteCmd)
}
