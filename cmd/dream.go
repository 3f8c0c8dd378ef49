package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/internal/dto/response"
	"github.com/pudey33/DreamRate/internal/usecase"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	randomCount  int
	feedCount    int
	dreamTitle   string
	dreamContent string
	dreamTags    []string
)

var dreamsCmd = &cobra.Command{
	Use:   "dreams",
	Short: "Read and write dreams",
	Long: `Work with dreams as the signed-in user.

Available subcommands:
  mine    - list your dreams, newest first
  random  - sample dreams written by other people
  feed    - sample dreams by other people with their reviews
  show    - one dream with its reviews
  create  - write a dream
  update  - replace the title and content of your dream
  delete  - delete your dream and its reviews`,
}

var dreamsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your dreams",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, userID, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			dreams, err := c.service.Dream.GetUserDreams(ctx, userID)
			if err != nil {
				return err
			}
			return render(cmd, dreams)
		})
	},
}

var dreamsRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Sample dreams written by other people",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkCount(randomCount); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, userID, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			dreams, err := c.service.Dream.GetRandomDreams(ctx, userID, randomCount)
			if err != nil {
				return err
			}
			return render(cmd, response.NewSampleResponse(randomCount, dreams))
		})
	},
}

var dreamsFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Sample dreams by other people with their reviews",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkCount(feedCount); err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, userID, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			dreams, err := c.service.Dream.GetDreamsWithReviews(ctx, userID, feedCount)
			if err != nil {
				return err
			}
			return render(cmd, response.NewSampleResponse(feedCount, dreams))
		})
	},
}

var dreamsShowCmd = &cobra.Command{
	Use:   "show <dream-id>",
	Short: "Show one dream with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dreamID, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, _, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			dream, err := c.service.Dream.GetDreamWithReviews(ctx, dreamID)
			if err != nil {
				return err
			}
			return render(cmd, dream)
		})
	},
}

var dreamsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a dream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, userID, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			dream, err := c.service.Dream.CreateDream(ctx, userID, &request.CreateDreamRequest{
				Title:   dreamTitle,
				Content: dreamContent,
				Tags:    dreamTags,
			})
			if err != nil {
				return err
			}
			return render(cmd, dream)
		})
	},
}

var dreamsUpdateCmd = &cobra.Command{
	Use:   "update <dream-id>",
	Short: "Replace the title and content of your dream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dreamID, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, _, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			dream, err := c.service.Dream.UpdateDream(ctx, dreamID, &request.UpdateDreamRequest{
				Title:   dreamTitle,
				Content: dreamContent,
			})
			if err != nil {
				return err
			}
			return render(cmd, dream)
		})
	},
}

var dreamsDeleteCmd = &cobra.Command{
	Use:   "delete <dream-id>",
	Short: "Delete your dream and its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dreamID, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, _, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			if err := c.service.Dream.DeleteDream(ctx, dreamID); err != nil {
				return err
			}
			return render(cmd, map[string]string{"deleted": strconv.FormatInt(dreamID, 10)})
		})
	},
}

func checkCount(n int) error {
	if n > usecase.MaxSampleSize {
		return fmt.Errorf("--count must be at most %d", usecase.MaxSampleSize)
	}
	return nil
}

func init() {
	dreamsRandomCmd.Flags().IntVarP(&randomCount, "count", "n", 1, "How many dreams to sample")
	dreamsFeedCmd.Flags().IntVarP(&feedCount, "count", "n", 10, "How many dreams to sample")

	for _, c := range []*cobra.Command{dreamsCreateCmd, dreamsUpdateCmd} {
		c.Flags().StringVarP(&dreamTitle, "title", "t", "", "Dream title")
		c.Flags().StringVar(&dreamContent, "content", "", "Dream text")
		_ = c.MarkFlagRequired("title")
		_ = c.MarkFlagRequired("content")
	}
	dreamsCreateCmd.Flags().StringSliceVar(&dreamTags, "tag", nil, "Tag, repeatable")

	dreamsCmd.AddCommand(dreamsMineCmd, dreamsRandomCmd, dreamsFeedCmd, dreamsShowCmd,
		dreamsCreateCmd, dreamsUpdateCmd, dreamsDeleteCmd)
}
