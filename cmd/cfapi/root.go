package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ivanehh/go-cfapi/pkg/cfapi"
	"github.com/ivanehh/go-cfapi/pkg/endpoints"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type RootOptions struct {
	Method     string
	Raw        bool
	Profile    string
	ConfigFile string
	Params     []string
	Data       string
	Files      []string
	OpenAPI    string
	Dump       bool
	Debug      bool
}

func DefaultRootOptions() *RootOptions {
	return &RootOptions{Method: "GET"}
}

func NewCmdRoot() *cobra.Command {
	o := DefaultRootOptions()
	cmd := &cobra.Command{
		Use:   "cfapi [flags] /path/:id/sub/:id",
		Short: "Call the Cloudflare v4 API.",
		Long: `Call the Cloudflare v4 API.

Path elements starting with ':' are identifiers, everything else names the
endpoint, for example:

  cfapi /zones/:023e105f4ecef8ad9ca31a8372d0c353/dns_records -p type=A`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *RootOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Method, "method", "X", o.Method, "HTTP method: GET, POST, PUT, PATCH or DELETE.")
	fs.BoolVar(&o.Raw, "raw", o.Raw, "Print result and result_info instead of the bare result.")
	fs.StringVar(&o.Profile, "profile", o.Profile, "Profile to read from the configuration file.")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Configuration file (default: search ./.cloudflare.yaml, ~/.cloudflare.yaml, ~/.cloudflare/cloudflare.yaml).")
	fs.StringArrayVarP(&o.Params, "param", "p", o.Params, "Query parameter as key=value. May be repeated.")
	fs.StringVarP(&o.Data, "data", "d", o.Data, "Request body: JSON, plain text, or @file.")
	fs.StringArrayVarP(&o.Files, "file", "f", o.Files, "File to upload as field=path. May be repeated.")
	fs.StringVar(&o.OpenAPI, "openapi", o.OpenAPI, "Build the endpoint tree from this OpenAPI document.")
	fs.BoolVar(&o.Dump, "dump", o.Dump, "List every callable endpoint and exit.")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "Log requests as curl commands.")
}

func (o *RootOptions) Validate(args []string) error {
	if o.Dump {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one endpoint path, got %d", len(args))
	}
	m, err := cfapi.ParseMethod(o.Method)
	if err != nil {
		return err
	}
	o.Method = m
	return nil
}

func (o *RootOptions) clientOptions(stderr io.Writer) ([]cfapi.Option, error) {
	opts := []cfapi.Option{
		cfapi.WithRaw(o.Raw),
		cfapi.WithProfile(o.Profile),
		cfapi.WithConfigFile(o.ConfigFile),
	}
	if o.Debug {
		opts = append(opts, cfapi.WithDebug(true))
	}
	if o.OpenAPI == "" {
		return opts, nil
	}

	data, err := os.ReadFile(o.OpenAPI)
	if err != nil {
		return nil, err
	}
	specs, err := endpoints.FromOpenAPI(data)
	var skipped *multierror.Error
	switch {
	case errors.As(err, &skipped):
		fmt.Fprintf(stderr, "%s: %d paths skipped\n", o.OpenAPI, len(skipped.Errors))
	case err != nil:
		return nil, err
	}
	return append(opts, cfapi.WithEndpoints(specs)), nil
}

func (o *RootOptions) Run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	opts, err := o.clientOptions(stderr)
	if err != nil {
		return err
	}
	cf, err := cfapi.New(opts...)
	if err != nil {
		return err
	}

	if o.Dump {
		for _, e := range cf.Endpoints() {
			fmt.Fprintln(stdout, e)
		}
		return nil
	}

	names, ids := splitPath(args[0])
	node, err := cf.Endpoint(names...)
	if err != nil {
		return err
	}

	callOpts := []cfapi.CallOption{cfapi.WithIdentifiers(ids...)}
	params, err := parseParams(o.Params)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		callOpts = append(callOpts, cfapi.WithParams(params))
	}
	if o.Data != "" {
		body, err := parseBody(o.Data)
		if err != nil {
			return err
		}
		callOpts = append(callOpts, cfapi.WithBody(body))
	}
	for _, f := range o.Files {
		field, path, ok := strings.Cut(f, "=")
		if !ok || field == "" || path == "" {
			return fmt.Errorf("file %q: expected field=path", f)
		}
		fh, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fh.Close()
		callOpts = append(callOpts, cfapi.WithFile(field, filepath.Base(path), fh))
	}

	result, err := node.Do(ctx, o.Method, callOpts...)
	if err != nil {
		return err
	}
	return printResult(stdout, result)
}

// splitPath separates "/zones/:abc/dns_records/:def" into sanitized names and
// the identifiers in order.
func splitPath(p string) (names, ids []string) {
	for _, elem := range strings.Split(strings.Trim(p, "/"), "/") {
		switch {
		case elem == "":
		case strings.HasPrefix(elem, ":"):
			ids = append(ids, elem[1:])
		default:
			names = append(names, endpoints.Name(elem))
		}
	}
	return names, ids
}

func parseParams(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q: expected key=value", p)
		}
		switch prev := out[k].(type) {
		case nil:
			out[k] = v
		case string:
			out[k] = []string{prev, v}
		case []string:
			out[k] = append(prev, v)
		}
	}
	return out, nil
}

// parseBody reads @file references and decodes JSON; anything else is sent
// as text.
func parseBody(data string) (any, error) {
	if name, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		data = string(b)
	}
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return data, nil
	}
	return v, nil
}

func printResult(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
