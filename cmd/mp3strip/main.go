package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ghetzel/cli"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/simonhull/mp3strip"
	"github.com/simonhull/mp3strip/internal/config"
)

func main() {
	app := cli.NewApp()
	app.Name = `mp3strip`
	app.Usage = `List and remove every metadata tag of the MP3 files in a directory.`
	app.Version = mp3strip.Version

	var conf *config.Config

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   `log-level, L`,
			Usage:  `Level of log output verbosity`,
			Value:  `info`,
			EnvVar: `LOGLEVEL`,
		},
		cli.StringFlag{
			Name:  `config, c`,
			Usage: `The path to the configuration file.`,
			Value: config.DefaultPath,
		},
		cli.StringFlag{
			Name:  `dir`,
			Usage: `The directory of MP3 files to process.`,
		},
		cli.BoolFlag{
			Name:  `debug, d`,
			Usage: `Strip a DEBUG_ copy of each file and leave the original untouched.`,
		},
		cli.StringFlag{
			Name:  `backend, b`,
			Usage: `The tag container backend to use (see "backends").`,
		},
		cli.BoolFlag{
			Name:  `verify`,
			Usage: `Re-read each saved file and fail if any tag remains.`,
		},
		cli.BoolFlag{
			Name:  `preserve-mtime`,
			Usage: `Keep the modification time of rewritten files.`,
		},
	}

	app.Before = func(c *cli.Context) error {
		log.SetLevelString(c.String(`log-level`))

		if loaded, err := config.Load(c.String(`config`)); err == nil {
			conf = loaded
		} else {
			return fmt.Errorf("load config %s: %w", c.String(`config`), err)
		}

		if !c.IsSet(`log-level`) {
			log.SetLevelString(conf.LogLevel)
		}
		flagOverrides(c).apply(conf)

		log.Debugf("config: %+v", *conf)
		return nil
	}

	app.Action = func(c *cli.Context) {
		_, err := mp3strip.Run(conf.Directory, options(conf)...)

		if errors.Is(err, mp3strip.ErrNoFiles) {
			return
		} else if err != nil {
			log.Fatal(err)
		}
	}

	app.Commands = []cli.Command{
		{
			Name:      `strip`,
			Usage:     `Remove the tags of the given files.`,
			ArgsUsage: `PATH...`,
			Action: func(c *cli.Context) {
				if len(c.Args()) == 0 {
					log.Fatalf("Must specify at least one PATH to strip")
				}

				failed := 0
				for _, path := range c.Args() {
					if err := mp3strip.Process(path, options(conf)...); err != nil {
						failed++
					}
					fmt.Println()
				}

				if failed > 0 {
					log.Fatalf("%d of %d file(s) failed", failed, len(c.Args()))
				}
			},
		}, {
			Name:      `ls`,
			Usage:     `List the tags of the given files without changing them.`,
			ArgsUsage: `PATH...`,
			Action: func(c *cli.Context) {
				if len(c.Args()) == 0 {
					log.Fatalf("Must specify at least one PATH to list")
				}

				for _, path := range c.Args() {
					if err := mp3strip.Inspect(path, mp3strip.WithBackend(conf.Backend)); err != nil {
						log.Debugf("%s: %v", path, err)
					}
				}
			},
		}, {
			Name:  `backends`,
			Usage: `List the available tag container backends.`,
			Action: func(c *cli.Context) {
				for _, name := range mp3strip.Backends() {
					if name == conf.Backend {
						fmt.Printf("%s (selected)\n", name)
					} else {
						fmt.Println(name)
					}
				}
			},
		}, {
			Name:  `version`,
			Usage: `Show detailed version information.`,
			Action: func(c *cli.Context) {
				fmt.Println(mp3strip.GetVersionInfo())
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// overrides holds the command line flags that win over the config file.
// Empty strings and false booleans leave the config value alone.
type overrides struct {
	dir             string
	backend         string
	debug           bool
	verify          bool
	preserveModTime bool
}

func flagOverrides(c *cli.Context) overrides {
	var o overrides
	if c.IsSet(`dir`) {
		o.dir = c.String(`dir`)
	}
	if c.IsSet(`backend`) {
		o.backend = c.String(`backend`)
	}
	o.debug = c.Bool(`debug`)
	o.verify = c.Bool(`verify`)
	o.preserveModTime = c.Bool(`preserve-mtime`)
	return o
}

// apply writes the flags that were given over conf.
func (o overrides) apply(conf *config.Config) {
	if o.dir != "" {
		conf.Directory = o.dir
	}
	if o.backend != "" {
		conf.Backend = o.backend
	}
	if o.debug {
		conf.Debug = true
	}
	if o.verify {
		conf.Verify = true
	}
	if o.preserveModTime {
		conf.PreserveModTime = true
	}
}

// options turns the effective configuration into processing options.
func options(conf *config.Config) []mp3strip.Option {
	opts := []mp3strip.Option{
		mp3strip.WithBackend(conf.Backend),
	}

	if conf.Debug {
		opts = append(opts, mp3strip.WithDebug())
	}
	if conf.Verify {
		opts = append(opts, mp3strip.WithVerify())
	}
	if conf.PreserveModTime {
		opts = append(opts, mp3strip.WithPreserveModTime())
	}

	return opts
}
