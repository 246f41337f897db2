package main

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/imgdrop/internal/config"
)

// settable maps the keys accepted by `config set` onto the config fields.
var settable = map[string]func(*config.Config, string) error{
	"base-url": func(c *config.Config, v string) error {
		v = strings.TrimRight(strings.TrimSpace(v), "/")
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base-url must be an http(s) URL, got %q", v)
		}
		c.Upload.BaseURL = v
		return nil
	},
	"history-limit": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return fmt.Errorf("history-limit must be a number >= 0, got %q", v)
		}
		c.History.Limit = n
		return nil
	},
	"log-level": func(c *config.Config, v string) error {
		lvl, err := logrus.ParseLevel(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		c.Log.Level = lvl.String()
		return nil
	},
	"start-dir": func(c *config.Config, v string) error {
		c.UI.StartDir = strings.TrimSpace(v)
		return nil
	},
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved settings",
	}
	cmd.AddCommand(configShowCmd(), configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

func configSetCmd() *cobra.Command {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Save one setting to the config file",
		Long:      "Save one setting to the config file.\n\nKeys: " + strings.Join(keys, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			apply, ok := settable[args[0]]
			if !ok {
				return fmt.Errorf("unknown key %q (want one of %s)", args[0], strings.Join(keys, ", "))
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := apply(&cfg, args[1]); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s saved\n", args[0])
			return nil
		},
	}
}

func printConfig(out io.Writer, cfg config.Config) error {
	_, err := fmt.Fprintf(out,
		"base-url       %s\nhistory-path   %s\nhistory-limit  %d\nlog-path       %s\nlog-level      %s\nstart-dir      %s\naccept         %s\n",
		cfg.Upload.BaseURL, cfg.History.Path, cfg.History.Limit,
		cfg.Log.Path, cfg.Log.Level, cfg.UI.StartDir, strings.Join(cfg.UI.Accept, " "))
	return err
}
