// Command xsdump decodes a captured XenStore wire byte stream and
// prints one line per packet.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli"

	"github.com/openxen/xenstore-go/internal/logging"
	"github.com/openxen/xenstore-go/internal/xsconfig"
	"github.com/openxen/xenstore-go/stream"
	"github.com/openxen/xenstore-go/wire"
)

func DumpCmd() cli.Command {
	return cli.Command{
		Name:  "dump",
		Usage: "decode a captured xenstore wire stream from a file or stdin",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "input", Usage: "path to a captured byte stream, or - for stdin"},
			cli.StringFlag{Name: "config", Usage: "optional TOML file of protocol limits"},
			cli.BoolFlag{Name: "follow", Usage: "keep reading packets until the stream closes"},
		},
		Action: func(c *cli.Context) {
			if err := dump(c); err != nil {
				log.Error().Err(err).Msg("dump failed")
				os.Exit(1)
			}
		},
	}
}

var log = logging.ConfigureRuntime()

func dump(c *cli.Context) error {
	limits, err := xsconfig.Load(c.String("config"))
	if err != nil {
		return err
	}
	if limits.MaxPayload != wire.MaxPayload {
		log.Warn().Int("configured", limits.MaxPayload).Int("wire", wire.MaxPayload).
			Msg("configured max_payload does not match the wire protocol maximum")
	}

	in, closeIn, err := openInput(c.String("input"))
	if err != nil {
		return err
	}
	defer closeIn()

	runID := uuid.New().String()
	log.Info().Str("run", runID).Msg("xsdump started")

	ch := stream.FromReadWriter(readOnlyReadWriter{in})
	s := stream.Make(ch).WithLogger(logging.NewAdapter(log))

	count := 0
	for {
		p, err := s.Recv()
		if err != nil {
			if err == stream.ErrZeroByteRead {
				break
			}
			return err
		}
		fmt.Printf("run=%s ty=%s rid=%d tid=%d data=%q\n", runID, p.Ty(), p.Rid(), p.Tid(), p.Data())
		count++
		if !c.Bool("follow") {
			break
		}
	}

	log.Info().Str("run", runID).Int("packets", count).Msg("xsdump finished")
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("xsdump: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// readOnlyReadWriter adapts an io.Reader into the io.ReadWriter shape
// stream.FromReadWriter expects.
type readOnlyReadWriter struct {
	io.Reader
}

func (readOnlyReadWriter) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("xsdump: input stream is read-only")
}

func main() {
	a := cli.NewApp()
	a.Name = "xsdump"
	a.Usage = "decode a captured xenstore wire stream"
	a.Commands = []cli.Command{DumpCmd()}
	if err := a.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("xsdump failed")
	}
}
