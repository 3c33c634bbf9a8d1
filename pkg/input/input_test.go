// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

package input

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-extract/pkg/extract"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRead(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/plain.txt", []byte("a=1\r\nb=2\r\n"), 0o600))

	got, err := Read(fs, "/in/plain.txt")
	require.NoError(t, err)
	assert.Equal(t, "a=1\nb=2\n", got)

	_, err = Read(fs, "/in/missing.txt")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
		in   []byte
	}{
		{name: "plain utf-8", in: []byte("name=你"), want: "name=你"},
		{name: "utf-8 bom", in: []byte("\xef\xbb\xbfa=1"), want: "a=1"},
		{name: "utf-16 le bom", in: []byte{0xff, 0xfe, 'a', 0, '=', 0, '1', 0}, want: "a=1"},
		{name: "utf-16 be bom", in: []byte{0xfe, 0xff, 0, 'a', 0, '=', 0, '1'}, want: "a=1"},
		{name: "bare carriage returns", in: []byte("a=1\rb=2"), want: "a=1\nb=2"},
		{name: "empty", in: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFromTooLarge(t *testing.T) {
	t.Parallel()

	_, err := ReadFrom(bytes.NewReader(make([]byte, MaxSize+1)))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestSampleExtracts(t *testing.T) {
	t.Parallel()

	m := extract.Extract(Sample, extract.AllFormats())
	v, ok := m.Get("cityId")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("a=0"), 0o600))

	fakeClock := clockwork.NewFakeClock()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan string, 4)
	watchDone := make(chan error, 1)
	go func() {
		watchDone <- Watch(ctx, path, fakeClock, time.Second, func(s string) {
			got <- s
		})
	}()

	// keep writing until the watcher has seen a change and armed its timer
	stopWriting := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopWriting:
				return
			case <-ticker.C:
				_ = os.WriteFile(path, []byte("a=1"), 0o600)
			}
		}
	}()

	require.NoError(t, fakeClock.BlockUntilContext(ctx, 1))
	close(stopWriting)
	<-writerDone

	fakeClock.Advance(time.Second)

	select {
	case s := <-got:
		assert.Equal(t, "a=1", s)
	case <-ctx.Done():
		t.Fatal("watch callback was not called")
	}

	cancel()
	require.NoError(t, <-watchDone)
}
