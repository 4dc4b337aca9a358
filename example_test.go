package syncview_test

import (
	"context"
	"fmt"
	"log"

	"github.com/tsawler/syncview"
	"github.com/tsawler/syncview/scroll"
)

// These examples verify the package documentation samples compile. They are
// not run since they need document files.

func Example_viewer() {
	region := scroll.NewRegion("", scroll.Size{Width: 800, Height: 1000})
	v := syncview.NewViewer(region, syncview.WithZoom(1.25))
	defer v.Close()

	if err := v.Load(context.Background(), "document.pdf"); err != nil {
		log.Fatal(err)
	}
	v.OnPageChanged(func(page int) {
		fmt.Println("page", page, "of", v.TotalPages())
	})
	region.ScrollTo(scroll.Offset{Y: 2000})
}

func Example_group() {
	ctx := context.Background()
	tree := scroll.NewTree()
	left := scroll.NewRegion("left", scroll.Size{Width: 800, Height: 1000})
	right := scroll.NewRegion("right", scroll.Size{Width: 800, Height: 1000})
	tree.Mount(left)
	tree.Mount(right)

	group := syncview.NewGroup(tree)
	defer group.Close()

	a := syncview.NewViewer(left, syncview.WithGroup(group), syncview.WithSyncEnabled(true))
	b := syncview.NewViewer(right, syncview.WithGroup(group), syncview.WithSyncEnabled(true))
	defer a.Close()
	defer b.Close()

	if err := a.Load(ctx, "before.pdf"); err != nil {
		log.Fatal(err)
	}
	if err := b.Load(ctx, "after.pdf"); err != nil {
		log.Fatal(err)
	}

	left.ScrollTo(scroll.Offset{Y: 1200})
	fmt.Println(right.Offset())
}
