package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	tftp "github.com/manciukic/gotftp"
)

// shell drives the "!command" prompt loop described by
// original_source/src/tftp_client.c's main loop: a bufio.Scanner reads one
// line at a time, splits it on whitespace, and dispatches to one of four
// commands. It is kept as a thin dispatcher over tftp.Client, which owns
// the actual protocol exchange.
type shell struct {
	client *tftp.Client
	mode   tftp.Mode
	in     *bufio.Scanner
	out    io.Writer
}

func newShell(addr string, r io.Reader, w io.Writer) *shell {
	return &shell{
		client: &tftp.Client{ServerAddr: addr},
		mode:   tftp.ModeOctet,
		in:     bufio.NewScanner(r),
		out:    w,
	}
}

func (s *shell) run() error {
	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}

		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			fmt.Fprintln(s.out, "Comando non riconosciuto : ''")
			s.help()
			continue
		}

		switch fields[0] {
		case "!help":
			s.help()
		case "!mode":
			if len(fields) != 2 {
				fmt.Fprintln(s.out, "Il comando richiede un solo argomento: bin o txt")
				continue
			}
			s.setMode(fields[1])
		case "!get":
			if len(fields) != 3 {
				fmt.Fprintln(s.out, "Il comando richiede due argomenti: filename nome_locale")
				continue
			}
			s.get(fields[1], fields[2])
		case "!quit":
			fmt.Fprintln(s.out, "Client terminato con successo")
			return nil
		default:
			fmt.Fprintf(s.out, "Comando non riconosciuto : '%s'\n", fields[0])
			s.help()
		}
	}
}

func (s *shell) help() {
	fmt.Fprintln(s.out, "Sono disponibili i seguenti comandi:")
	fmt.Fprintln(s.out, "!help --> mostra l'elenco dei comandi disponibili")
	fmt.Fprintln(s.out, "!mode {txt|bin} --> imposta il modo di trasferimento dei file (testo o binario)")
	fmt.Fprintln(s.out, "!get filename nome_locale --> richiede al server il nome del file <filename> e lo salva localmente con il nome <nome_locale>")
	fmt.Fprintln(s.out, "!quit --> termina il client")
}

func (s *shell) setMode(m string) {
	switch m {
	case "txt":
		s.mode = tftp.ModeNetASCII
		fmt.Fprintln(s.out, "Modo di trasferimento testo configurato")
	case "bin":
		s.mode = tftp.ModeOctet
		fmt.Fprintln(s.out, "Modo di trasferimento binario configurato")
	default:
		fmt.Fprintf(s.out, "Modo di traferimento sconosciuto: %s. Modi disponibili: txt, bin\n", m)
	}
}

func (s *shell) get(remote, local string) {
	fmt.Fprintf(s.out, "Richiesta file %s (%s) al server in corso.\n", remote, s.mode)
	fmt.Fprintln(s.out, "Trasferimento file in corso.")

	res, err := s.client.Get(remote, local, s.mode)
	if err != nil {
		if pe, ok := err.(*tftp.ErrorPacket); ok && pe.Code == tftp.ErrCodeFileNotFound {
			fmt.Fprintln(s.out, "File non trovato.")
			return
		}
		fmt.Fprintf(s.out, "Errore durante il trasferimento: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "Trasferimento completato (%d/%d blocchi)\n", res.Blocks, res.Blocks)
	fmt.Fprintf(s.out, "Salvataggio %s completato.\n", local)
}
