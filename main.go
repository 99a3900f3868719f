package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/pflag"
)

const usage = `sortasecret hides sorta-secret information on webpages behind a captcha.

Usage:
  sortasecret genkey [--file PATH]     generate a new recipient key
  sortasecret server [flags]           launch the web server
  sortasecret version                  print the version
`

type command struct {
	name   string
	genkey genkeyOptions
	server serverOptions
}

var errUsage = errors.New("usage")

func parseCommand(args []string, stderr io.Writer) (command, error) {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return command{}, errUsage
	}

	cmd := command{name: args[0]}
	flags := pflag.NewFlagSet("sortasecret "+cmd.name, pflag.ContinueOnError)
	flags.SetOutput(stderr)

	switch cmd.name {
	case "genkey":
		flags.StringVar(&cmd.genkey.file, "file", "", "filename to write key to, if omitted writes to stdout")
	case "server":
		flags.StringVar(&cmd.server.bind, "bind", "", "host/port to bind to, e.g. 127.0.0.1:8080")
		flags.StringVar(&cmd.server.keyfile, "keyfile", "", "filename to read key from")
	case "version":
	case "-h", "--help", "help":
		fmt.Fprint(stderr, usage)
		return command{}, pflag.ErrHelp
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd.name, usage)
		return command{}, errUsage
	}

	if err := flags.Parse(args[1:]); err != nil {
		return command{}, err
	} else if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", flags.Args())
		return command{}, errUsage
	}

	return cmd, nil
}

func main() {
	cmd, err := parseCommand(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	} else if err != nil {
		os.Exit(2)
	}

	switch cmd.name {
	case "genkey":
		if err := runGenkey(cmd.genkey, os.Stdout); err != nil {
			log.Fatal(err)
		}
	case "server":
		if err := runServer(cmd.server); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Println(versioninfo.Short())
	}
}
