package main

import (
	"errors"
	"flag"
	"log"

	"github.com/scenariolab/trajgen/opendrive"
)

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	in := fs.String("in", "", "OpenDRIVE map")
	out := fs.String("out", "subset.xodr", "OpenDRIVE file to write")
	roads := fs.String("roads", "", "comma-separated seed road ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	seeds := splitList(*roads)
	if len(seeds) == 0 {
		return errors.New("-roads is required")
	}
	if err := opendrive.ExtractFile(*in, *out, seeds); err != nil {
		return err
	}
	log.Printf("wrote %s", *out)
	return nil
}
