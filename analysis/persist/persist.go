// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package persist stores the results of the dependence computation, either in a compact binary format or in a
// yaml text format.
package persist

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/awslabs/ar-go-deps/analysis/concurrency"
	"github.com/awslabs/ar-go-deps/analysis/config"
	"gopkg.in/yaml.v3"
)

// Format is a storage format of results
type Format string

const (
	// FormatBinary is the gob encoding of the results
	FormatBinary Format = config.PersistBinary
	// FormatText is the yaml encoding of the results
	FormatText Format = config.PersistText
)

// Extension returns the file extension of the format
func (f Format) Extension() string {
	if f == FormatText {
		return ".yaml"
	}
	return ".bin"
}

// record is the stored form of a result. The location edges are not stored.
type record struct {
	Dependence       map[string]map[string]bool `yaml:"dependence"`
	KnownTransitions map[string]bool            `yaml:"known-transitions"`
	MayFollow        map[string]map[string]bool `yaml:"may-follow"`
}

// Save writes res to w in format f
func Save(w io.Writer, res *concurrency.Result, f Format) error {
	if res == nil {
		return &Error{Kind: KindFormat, Err: errors.New("no result to save")}
	}
	rec := record{Dependence: res.Dependence, KnownTransitions: res.KnownTransitions, MayFollow: res.MayFollow}
	var err error
	switch f {
	case FormatBinary:
		err = gob.NewEncoder(w).Encode(rec)
	case FormatText:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(rec); err == nil {
			err = enc.Close()
		}
	default:
		return &Error{Kind: KindFormat, Err: fmt.Errorf("unknown format %q", f)}
	}
	if err != nil {
		return &Error{Kind: KindIO, Err: err}
	}
	return nil
}

// Load reads a result in format f from r. The Edges of the result are nil.
func Load(r io.Reader, f Format) (*concurrency.Result, error) {
	var rec record
	var err error
	switch f {
	case FormatBinary:
		err = gob.NewDecoder(r).Decode(&rec)
	case FormatText:
		err = yaml.NewDecoder(r).Decode(&rec)
	default:
		return nil, &Error{Kind: KindFormat, Err: fmt.Errorf("unknown format %q", f)}
	}
	if err != nil {
		return nil, classify(err)
	}
	res := &concurrency.Result{
		Dependence:       rec.Dependence,
		KnownTransitions: rec.KnownTransitions,
		MayFollow:        rec.MayFollow,
	}
	if res.Dependence == nil {
		res.Dependence = map[string]map[string]bool{}
	}
	if res.KnownTransitions == nil {
		res.KnownTransitions = map[string]bool{}
	}
	if res.MayFollow == nil {
		res.MayFollow = map[string]map[string]bool{}
	}
	return res, nil
}

// classify separates the failures to read from the malformed contents
func classify(err error) *Error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) || errors.Is(err, io.ErrClosedPipe) {
		return &Error{Kind: KindIO, Err: err}
	}
	return &Error{Kind: KindFormat, Err: err}
}

// SaveFile writes res to the file filename, truncating it
func SaveFile(filename string, res *concurrency.Result, f Format) error {
	file, err := os.Create(filename)
	if err != nil {
		return &Error{Kind: KindIO, Err: err}
	}
	if err := Save(file, res, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return &Error{Kind: KindIO, Err: err}
	}
	return nil
}

// LoadFile reads a result in format f from the file filename
func LoadFile(filename string, f Format) (*concurrency.Result, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &Error{Kind: KindIO, Err: err}
	}
	defer file.Close()
	return Load(file, f)
}

// RoundTrip writes res in format f, reads it back and checks that the result read is equal to res
func RoundTrip(res *concurrency.Result, f Format) error {
	var buf bytes.Buffer
	if err := Save(&buf, res, f); err != nil {
		return err
	}
	back, err := Load(&buf, f)
	if err != nil {
		return err
	}
	return sameResult(res, back, "result read back differs from the result written")
}

// VerifyFile reads the results stored in filename in format f and checks that they are equal to res. A difference
// is a KindFormat error.
func VerifyFile(filename string, res *concurrency.Result, f Format) error {
	back, err := LoadFile(filename, f)
	if err != nil {
		return err
	}
	return sameResult(res, back, fmt.Sprintf("results read back from %s differ from the computed results", filename))
}

func sameResult(res, back *concurrency.Result, msg string) error {
	if !res.Equal(back) {
		return &Error{Kind: KindFormat, Err: errors.New(msg)}
	}
	return nil
}
