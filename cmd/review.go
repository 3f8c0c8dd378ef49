package cmd

import (
	"context"
	"strconv"

	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	reviewText       string
	reviewOverall    int
	reviewEthics     int
	reviewCreativity int
	reviewWriting    int
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Read and write reviews",
	Long: `Work with reviews as the signed-in user.

Available subcommands:
  for     - reviews of one dream, newest first
  mine    - your reviews with the dream each one rates
  create  - rate a dream
  update  - replace your review
  delete  - delete your review`,
}

var reviewsForCmd = &cobra.Command{
	Use:   "for <dream-id>",
	Short: "List the reviews of a dream",
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
			reviews, err := c.service.Review.GetReviewsForDream(ctx, dreamID)
			if err != nil {
				return err
			}
			return render(cmd, reviews)
		})
	},
}

var reviewsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your reviews",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, userID, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			reviews, err := c.service.Review.GetUserReviews(ctx, userID)
			if err != nil {
				return err
			}
			return render(cmd, reviews)
		})
	},
}

var reviewsCreateCmd = &cobra.Command{
	Use:   "create <dream-id>",
	Short: "Rate a dream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dreamID, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}
		ethics, creativity, writing := subRatings(cmd.Flags())

		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, userID, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			review, err := c.service.Review.CreateReview(ctx, userID, &request.CreateReviewRequest{
				DreamID:          dreamID,
				Review:           reviewText,
				OverallRating:    reviewOverall,
				EthicsRating:     ethics,
				CreativityRating: creativity,
				WritingRating:    writing,
			})
			if err != nil {
				return err
			}
			return render(cmd, review)
		})
	},
}

var reviewsUpdateCmd = &cobra.Command{
	Use:   "update <review-id>",
	Short: "Replace your review",
	Long:  `Replace every field of your review. Sub-ratings not given are cleared.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewID, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}
		ethics, creativity, writing := subRatings(cmd.Flags())

		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, _, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			review, err := c.service.Review.UpdateReview(ctx, reviewID, &request.UpdateReviewRequest{
				Review:           reviewText,
				OverallRating:    reviewOverall,
				EthicsRating:     ethics,
				CreativityRating: creativity,
				WritingRating:    writing,
			})
			if err != nil {
				return err
			}
			return render(cmd, review)
		})
	},
}

var reviewsDeleteCmd = &cobra.Command{
	Use:   "delete <review-id>",
	Short: "Delete your review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reviewID, err := utils.ParseID(args[0])
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client) error {
			ctx, _, err := c.signedIn(ctx)
			if err != nil {
				return err
			}
			if err := c.service.Review.DeleteReview(ctx, reviewID); err != nil {
				return err
			}
			return render(cmd, map[string]string{"deleted": strconv.FormatInt(reviewID, 10)})
		})
	},
}

// subRatings returns the optional ratings that were given on the command line.
func subRatings(flags *pflag.FlagSet) (ethics, creativity, writing *int) {
	pick := func(name string, v int) *int {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}
	return pick("ethics", reviewEthics), pick("creativity", reviewCreativity), pick("writing", reviewWriting)
}

func init() {
	for _, c := range []*cobra.Command{reviewsCreateCmd, reviewsUpdateCmd} {
		c.Flags().StringVar(&reviewText, "review", "", "Review text")
		c.Flags().IntVarP(&reviewOverall, "rating", "r", 0, "Overall rating, 1 to 5")
		c.Flags().IntVar(&reviewEthics, "ethics", 0, "Ethics rating, 1 to 5")
		c.Flags().IntVar(&reviewCreativity, "creativity", 0, "Creativity rating, 1 to 5")
		c.Flags().IntVar(&reviewWriting, "writing", 0, "Writing rating, 1 to 5")
		_ = c.MarkFlagRequired("rating")
	}

	reviewsCmd.AddCommand(reviewsForCmd, reviewsMineCmd, reviewsCreateCmd, reviewsUpdateCmd, reviewsDeleteCmd)
}
