package main

import (
	"io"

	"github.com/sortasecret/sortasecret/pkg/keypair"
)

type genkeyOptions struct {
	file string
}

func runGenkey(opts genkeyOptions, stdout io.Writer) error {
	if k, err := keypair.Generate(); err != nil {
		return err
	} else if opts.file != "" {
		return k.EncodeFile(opts.file)
	} else {
		_, err := io.WriteString(stdout, k.Encode())
		return err
	}
}
