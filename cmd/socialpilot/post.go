package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/socialpilot/socialpilot/internal/domain/model"
)

func newPostCommand() *cobra.Command {
	var text string
	var mediaPath string
	var mediaType string
	var itemID string
	var account string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish one post immediately, outside the scheduler",
		Long: "Publish one post immediately. With --text the given content is published " +
			"as-is; with --id a stored content item is published and its cooldown stamp " +
			"updated; with neither a full selection cycle runs, exactly as a scheduler tick would.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text != "" && itemID != "" {
				return errors.New("--text and --id are mutually exclusive")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case text != "":
				accountKey, err := a.requireAccount(account)
				if err != nil {
					return err
				}
				mt := model.ParseMediaType(mediaType)
				if err := a.publisher.Publish(ctx, accountKey, text, mediaPath, mt); err != nil {
					return err
				}
				fmt.Fprintln(out, "post published")
				return nil

			case itemID != "":
				accountKey, err := a.requireAccount(account)
				if err != nil {
					return err
				}
				item, err := a.content.GetByID(ctx, itemID)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("content item %s not found", itemID)
				}
				if err := a.publisher.Publish(ctx, accountKey, item.Text, item.MediaURL, item.MediaType); err != nil {
					return err
				}
				if err := a.content.UpdateLastPublished(ctx, item.ID, time.Now()); err != nil {
					return fmt.Errorf("record publish time for %s: %w", item.ID, err)
				}
				fmt.Fprintf(out, "content item %s published\n", item.ID)
				return nil

			default:
				svc, err := a.postService()
				if err != nil {
					return err
				}
				if err := svc.RunOnce(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "publish cycle complete")
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Post text to publish as-is")
	cmd.Flags().StringVar(&mediaPath, "media", "", "Local path of a media file to attach (with --text)")
	cmd.Flags().StringVar(&mediaType, "media-type", "", "Media type: image or video (with --media)")
	cmd.Flags().StringVar(&itemID, "id", "", "ID of a stored content item to publish")
	cmd.Flags().StringVar(&account, "account", "", "Account key (defaults to SOCIALPILOT_ACCOUNT)")

	return cmd
}
