package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaki95/mixcloud/mixcloud"
)

func artistSetup(args *globalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "artist <slug>",
		Short: "Show an artist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			client, err := args.client(true)
			if err != nil {
				return err
			}
			artist, err := client.Artist(cmd.Context(), positional[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", artist.Name, artist.Key)
			return nil
		},
	}
}

func userSetup(args *globalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "user <username>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			client, err := args.client(true)
			if err != nil {
				return err
			}
			user, err := client.User(cmd.Context(), positional[0])
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

func meSetup(args *globalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the user owning the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, positional []string) error {
			client, err := args.client(true)
			if err != nil {
				return err
			}
			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

func cloudcastSetup(args *globalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "cloudcast <username> <key>",
		Short: "Show a cloudcast with its tracklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, positional []string) error {
			client, err := args.client(true)
			if err != nil {
				return err
			}
			cc, err := client.Cloudcast(cmd.Context(), positional[0], positional[1])
			if err != nil {
				return err
			}
			printCloudcast(cmd.OutOrStdout(), cc)
			return nil
		},
	}
}

func cloudcastsSetup(args *globalArgs) *cobra.Command {
	opts := mixcloud.ListOptions{}

	cloudcastsCommand := &cobra.Command{
		Use:   "cloudcasts <username>",
		Short: "List a user's cloudcasts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			client, err := args.client(true)
			if err != nil {
				return err
			}
			ccs, err := client.Cloudcasts(cmd.Context(), positional[0], &opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, cc := range ccs {
				if opts.Expand {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printCloudcast(out, cc)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", cc.Key(), cc.Name(), strings.Join(cc.Tags(), ", "))
			}
			return nil
		},
	}

	cloudcastsCommand.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "maximum number of cloudcasts to list")
	cloudcastsCommand.Flags().IntVarP(&opts.Offset, "offset", "o", 0, "number of cloudcasts to skip")
	cloudcastsCommand.Flags().BoolVarP(&opts.Expand, "expand", "e", false, "fetch and show every tracklist")

	return cloudcastsCommand
}

func printUser(w io.Writer, user mixcloud.User) {
	fmt.Fprintf(w, "%s (%s)\n", user.Name, user.Key)
}

func printCloudcast(w io.Writer, cc *mixcloud.Cloudcast) {
	fmt.Fprintf(w, "%s (%s/%s)\n", cc.Name(), cc.User().Key, cc.Key())
	if !cc.Created().IsZero() {
		fmt.Fprintf(w, "Created: %s\n", cc.Created().Format(time.RFC3339))
	}
	if tags := cc.Tags(); len(tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(tags, ", "))
	}
	if picture := cc.Picture(); picture != "" {
		fmt.Fprintf(w, "Picture: %s\n", picture)
	}
	if description := cc.Description(); description != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(description))
	}
	if sections := cc.Sections(); len(sections) > 0 {
		fmt.Fprintln(w)
		for _, section := range sections {
			fmt.Fprintf(w, "%s | %s | %s\n", formatOffset(section.StartTime), section.Track.Name, section.Track.Artist.Name)
		}
	}
}

// formatOffset renders seconds as m:ss or h:mm:ss.
func formatOffset(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
