// Inspects torrent files and talks to trackers and peers from the command-line.
//
// Example run:
// $ go run ./cmd/torrent info debian.iso.torrent
// Tracker URL: http://bttracker.debian.org:6969/announce
// Length: 658505728 (658 MB)
// Info Hash: 6a9759bffd5c0af65319979fb7832189f4f3c35d
// ...
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/anacrolix/envpprof"
	"github.com/anacrolix/log"
	"golang.org/x/xerrors"

	"github.com/bencodec/torrent/version"
)

var logger = log.Default.WithNames("main")

type cmdFlags struct {
	*DecodeCmd        `arg:"subcommand:decode"`
	*InfoCmd          `arg:"subcommand:info"`
	*MetainfoCmd      `arg:"subcommand:metainfo"`
	*MagnetCmd        `arg:"subcommand:magnet"`
	*PeersCmd         `arg:"subcommand:peers"`
	*AnnounceCmd      `arg:"subcommand:announce"`
	*HandshakeCmd     `arg:"subcommand:handshake"`
	*SpewBencodingCmd `arg:"subcommand:spew-bencoding"`
	*VersionCmd       `arg:"subcommand:version"`
}

type VersionCmd struct{}

type SpewBencodingCmd struct{}

func main() {
	defer envpprof.Stop()
	var out bytes.Buffer
	err := mainErr(os.Args[1:], os.Stdin, &out)
	if err == arg.ErrHelp {
		os.Stdout.Write(out.Bytes())
		return
	}
	if err != nil {
		logger.Levelf(log.Error, "error in main: %v", err)
		os.Exit(1)
	}
	// Nothing is written unless the whole command succeeded.
	os.Stdout.Write(out.Bytes())
}

func mainErr(args []string, stdin io.Reader, stdout io.Writer) error {
	var flags cmdFlags
	p, err := arg.NewParser(arg.Config{Program: "torrent"}, &flags)
	if err != nil {
		return err
	}
	err = p.Parse(args)
	if err == arg.ErrHelp {
		p.WriteHelp(stdout)
		return err
	}
	if err != nil {
		return xerrors.Errorf("parsing args: %w", err)
	}
	switch {
	case flags.DecodeCmd != nil:
		return decodeErr(*flags.DecodeCmd, stdout)
	case flags.InfoCmd != nil:
		return infoErr(*flags.InfoCmd, stdout)
	case flags.MetainfoCmd != nil:
		return metainfoErr(*flags.MetainfoCmd, stdout)
	case flags.MagnetCmd != nil:
		return magnetErr(*flags.MagnetCmd, stdout)
	case flags.PeersCmd != nil:
		return peersErr(*flags.PeersCmd, stdout)
	case flags.AnnounceCmd != nil:
		return announceErr(*flags.AnnounceCmd, stdout)
	case flags.HandshakeCmd != nil:
		return handshakeErr(*flags.HandshakeCmd, stdout)
	case flags.SpewBencodingCmd != nil:
		return spewBencodingErr(stdin, stdout)
	case flags.VersionCmd != nil:
		return versionErr(stdout)
	default:
		p.WriteUsage(stdout)
		return xerrors.New("expected a subcommand")
	}
}

func versionErr(w io.Writer) error {
	fmt.Fprintf(w, "Module version: %q\n", version.ModuleVersion)
	fmt.Fprintf(w, "HTTP User-Agent: %q\n", version.DefaultHttpUserAgent)
	fmt.Fprintf(w, "Torrent version prefix: %q\n", version.DefaultBep20Prefix)
	return nil
}
