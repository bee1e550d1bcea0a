// Command querytool decomposes and composes search queries from the command line.
//
// Usage:
//
//	querytool decompose "cat order:score rating:safe"
//	querytool compose -tags cat -order score -rating rating:safe -md5 <hash>
//	querytool compose -tags cat -image ~/Pictures/shot.png
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/booruapp/tagsearch-server/internal/dialog"
	"github.com/booruapp/tagsearch-server/internal/media/images"
	"github.com/booruapp/tagsearch-server/internal/query"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "decompose":
		err = runDecompose(os.Args[2:])
	case "compose":
		err = runCompose(os.Args[2:])
	case "options":
		err = printJSON(dialog.Options())
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "querytool: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: querytool decompose <query> | compose [flags] | options")
}

func runDecompose(args []string) error {
	fs := flag.NewFlagSet("decompose", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("decompose takes exactly one query argument")
	}

	q := query.Decompose(fs.Arg(0))
	return printJSON(struct {
		Query query.Query `json:"query"`
		Form  dialog.Form `json:"form"`
	}{q, dialog.FromQuery(q)})
}

func runCompose(args []string) error {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	tags := fs.String("tags", "", "Free tag text")
	order := fs.String("order", "", "Order value, e.g. score")
	rating := fs.String("rating", "", "Whole rating token, e.g. -rating:safe")
	status := fs.String("status", "", "Status value, e.g. active")
	date := fs.String("date", "", "Date filter value")
	md5 := fs.String("md5", "", "Hex md5 of a query image")
	imagePath := fs.String("image", "", "Image file to hash; overrides -md5")
	prefix := fs.String("prefix", "", "Extra prefix; overrides -md5 and -image")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := query.Query{Tags: *tags, Date: *date}
	var ok bool
	if *order != "" {
		if q.Order, ok = query.ParseOrder(*order); !ok {
			return fmt.Errorf("unknown order %q", *order)
		}
	}
	if *rating != "" {
		if q.Rating, ok = query.ParseRating(*rating); !ok {
			return fmt.Errorf("unknown rating %q", *rating)
		}
	}
	if *status != "" {
		if q.Status, ok = query.ParseStatus(*status); !ok {
			return fmt.Errorf("unknown status %q", *status)
		}
	}

	hash := *md5
	if *imagePath != "" {
		// A missing file searches without a hash.
		h, err := images.HashFile(*imagePath)
		if err != nil {
			return err
		}
		hash = h
	}

	extra := *prefix
	if extra == "" {
		extra = query.ReverseImagePrefix(hash)
	}

	fmt.Println(query.Compose(q, extra))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
