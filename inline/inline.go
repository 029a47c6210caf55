// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
)

// Run loads the section of options and writes its rows.
func Run(options *Options) error {
	if options.Section == nil {
		return errors.New("no section given")
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Store == nil {
		options.Store = store.New()
	}
	if options.Pages < 1 {
		options.Pages = 1
	}

	listing := options.Section.Load(options.Context, options.Store, options.Env, options.Pages)
	rows := listing.Rows
	if options.Selector.IsPresent() {
		rows = options.Selector.MustGet()(rows)
	}

	if listing.Err != nil {
		log.Warnf("%s: %s: %v", listing.Section, listing.State, listing.Err)
	}

	if options.Json {
		if err := writeJson(options.Out, listing, rows); err != nil {
			return err
		}
	} else {
		writePlain(options.Out, rows)
	}

	return failure(listing)
}

// failure returns the error a run ends with. Rows already written make a pagination failure partial, not fatal.
func failure(listing section.Listing) error {
	switch listing.State {
	case loading.InitFailed:
		return fmt.Errorf("%s: %w", listing.Section, listing.Err)
	case loading.FetchNextFailed:
		return fmt.Errorf("%s: listing is partial, page %d failed: %w", listing.Section, listing.Pages, listing.Err)
	default:
		return nil
	}
}

func writeJson(out io.Writer, listing section.Listing, rows []section.Row) error {
	data, err := asJson(listing, rows)
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}

func writePlain(out io.Writer, rows []section.Row) {
	for _, row := range rows {
		if row.Item.Mark != "" {
			fmt.Fprintf(out, "%s %s\n", row.Item.Mark, row.Item.Title)
		} else {
			fmt.Fprintln(out, row.Item.Title)
		}
		if row.Item.Description != "" {
			fmt.Fprintf(out, "  %s\n", row.Item.Description)
		}
	}
}
