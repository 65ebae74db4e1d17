package cmd

import (
	"context"
	"fmt"
	"time"

	"media-manager/feature/gallery"

	"github.com/spf13/cobra"
)

var (
	listSet   string
	listOrder string
	listLimit int
	listWait  time.Duration
)

// listCmd prints the contents of a view.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the items of a media set",
	Long: `Opens a view on a media set, waits for it to load and prints its items.

Orders: date_taken, date_added, display_name, each with an optional -asc suffix.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSet, "set", "all", "Set to list (all, camera)")
	listCmd.Flags().StringVar(&listOrder, "order", "date_taken", "Order of the items")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of items; negative for all")
	listCmd.Flags().DurationVar(&listWait, "wait", 10*time.Second, "How long to wait for the view to load")
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, logg, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logg.Sync()

	eng, err := newEngine(cfg, logg)
	if err != nil {
		return err
	}
	defer eng.close()

	svc := gallery.NewService(eng.loop, logg, 0, eng.sets...)
	ctx, cancel := context.WithTimeout(cmd.Context(), listWait)
	defer cancel()

	opened, err := svc.OpenView(ctx, listSet, listOrder, listLimit)
	if err != nil {
		return err
	}
	view, err := waitLoaded(ctx, svc, opened.ID)
	if err != nil {
		return err
	}
	count, err := svc.Count(ctx, listSet)
	if err != nil {
		return err
	}

	fmt.Printf("\n--- %s (%s) ---\n", view.Set, view.Order)
	for i, item := range view.Items {
		fmt.Printf("%4d  %-20s  %-6s  %s\n", i+1, item.TakenAt.Format(time.DateTime), item.Type, item.Path)
	}
	fmt.Println("-----------------------------")
	if count.Known {
		fmt.Printf("Showing %d of %d items\n", view.Size, count.Count)
	} else {
		fmt.Printf("Showing %d items\n", view.Size)
	}
	return svc.CloseView(context.Background(), view.ID)
}

// waitLoaded polls the view until its initial load is done or ctx expires, in
// which case the partial contents are returned.
func waitLoaded(ctx context.Context, svc *gallery.Service, id string) (*gallery.ViewReport, error) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		view, err := svc.View(context.Background(), id)
		if err != nil || !view.Loading {
			return view, err
		}
		select {
		case <-ctx.Done():
			return view, nil
		case <-ticker.C:
		}
	}
}
