/*
 * logs.go, part of gomappings.
 *
 * Copyright 2025 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package run

import (
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	mappings "github.com/rmera/gomappings"
)

//logWriter writes the output of map52, zstd-compressed, to a file.
type logWriter struct {
	f *os.File
	z *zstd.Encoder
}

func newLogWriter(name string) (*logWriter, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &logWriter{f: f, z: z}, nil
}

func (L *logWriter) Write(p []byte) (int, error) {
	return L.z.Write(p)
}

//Close flushes the compressed stream and closes the file.
func (L *logWriter) Close() error {
	err := L.z.Close()
	if err2 := L.f.Close(); err == nil {
		err = err2
	}
	return err
}

//ReadLog returns the decompressed contents of a log kept by Run.
func ReadLog(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, mappings.NewError(mappings.ErrNoLog, "", "", "ReadLog").WithFile(name).WithCause(err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, mappings.NewError(mappings.ErrNoLog, "", "", "ReadLog").WithFile(name).WithCause(err)
	}
	defer dec.Close()
	b, err := io.ReadAll(dec)
	if err != nil {
		return nil, mappings.NewError(mappings.ErrNoLog, "", "", "ReadLog").WithFile(name).WithCause(err)
	}
	return b, nil
}
