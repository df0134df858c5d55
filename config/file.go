package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/microsoft/msgperf/log"
	"github.com/microsoft/msgperf/ui"
)

// File is the optional YAML options file. Absent keys keep their defaults.
type File struct {
	Transport struct {
		TOS            *int   `yaml:"tos"`
		SendBuffer     string `yaml:"send_buffer"`
		RecvBuffer     string `yaml:"recv_buffer"`
		NoDelay        *bool  `yaml:"no_delay"`
		MaxMessageSize string `yaml:"max_message_size"`
	} `yaml:"transport"`
	Sender struct {
		Settle *time.Duration `yaml:"settle"`
		Linger *time.Duration `yaml:"linger"`
	} `yaml:"sender"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open options file: %w", err)
	}
	defer f.Close()
	return DecodeFile(f)
}

// DecodeFile rejects unknown keys so that a misspelled option is not
// silently ignored.
func DecodeFile(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&f)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse options file: %w", err)
	}
	return &f, nil
}

func (f *File) apply(cfg *Config) error {
	t := f.Transport
	if t.TOS != nil {
		cfg.Transport.TOS = *t.TOS
	}
	if t.NoDelay != nil {
		cfg.Transport.NoDelay = *t.NoDelay
	}
	for _, s := range []struct {
		key string
		raw string
		dst *int
	}{
		{"send_buffer", t.SendBuffer, &cfg.Transport.SendBuffer},
		{"recv_buffer", t.RecvBuffer, &cfg.Transport.RecvBuffer},
		{"max_message_size", t.MaxMessageSize, &cfg.Transport.MaxMessageSize},
	} {
		if s.raw == "" {
			continue
		}
		v := ui.UnitToNumber(s.raw)
		if v == 0 {
			return fmt.Errorf("invalid transport.%s %q: %w", s.key, s.raw, ErrInvalidNumber)
		}
		*s.dst = int(v)
	}

	if f.Sender.Settle != nil {
		cfg.Settle = *f.Sender.Settle
	}
	if f.Sender.Linger != nil {
		cfg.Linger = *f.Sender.Linger
	}

	if f.Log.Level != "" {
		ll, err := log.ParseLevel(f.Log.Level)
		if err != nil {
			return err
		}
		cfg.LogLevel = ll
	}
	if f.Log.File != "" {
		cfg.OutputFile = f.Log.File
	}
	return nil
}
