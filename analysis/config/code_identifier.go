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

package config

import "regexp"

// A CodeIdentifier identifies a function or method of the program, for example an entry point of the analysis.
// A code identifier can be identified from its package, receiver type and method name, or any combination of those.
// Each field is interpreted as a regular expression; an empty field matches anything.
type CodeIdentifier struct {
	Package  string `yaml:"package"`
	Receiver string `yaml:"receiver"`
	Method   string `yaml:"method"`
	// This will not be part of the yaml config
	computedRegexs *codeIdentifierRegex
}

type codeIdentifierRegex struct {
	packageRegex  *regexp.Regexp
	receiverRegex *regexp.Regexp
	methodRegex   *regexp.Regexp
}

// compileRegexes compiles the strings in the code identifier into regexes. It compiles all identifiers into regexes
// or none.
// @ensures cid.computedRegexs != null || cid.computedRegexs.(*) != null
func compileRegexes(cid CodeIdentifier) CodeIdentifier {
	packageRegex, err := regexp.Compile(cid.Package)
	if err != nil {
		return cid
	}
	receiverRegex, err := regexp.Compile(cid.Receiver)
	if err != nil {
		return cid
	}
	methodRegex, err := regexp.Compile(cid.Method)
	if err != nil {
		return cid
	}
	cid.computedRegexs = &codeIdentifierRegex{
		packageRegex:  packageRegex,
		receiverRegex: receiverRegex,
		methodRegex:   methodRegex,
	}
	return cid
}

// Matches returns true if the function identified by its package path, receiver type name and name matches the
// code identifier. Empty fields of the identifier match anything. If the identifier could not be compiled into
// regexes, fields are compared for equality.
func (cid CodeIdentifier) Matches(pkg, receiver, method string) bool {
	if r := cid.computedRegexs; r != nil {
		return (cid.Package == "" || r.packageRegex.MatchString(pkg)) &&
			(cid.Receiver == "" || r.receiverRegex.MatchString(receiver)) &&
			(cid.Method == "" || r.methodRegex.MatchString(method))
	}
	return (cid.Package == "" || cid.Package == pkg) &&
		(cid.Receiver == "" || cid.Receiver == receiver) &&
		(cid.Method == "" || cid.Method == method)
}
