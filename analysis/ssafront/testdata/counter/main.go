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

package main

import "sync"

type Counter struct {
	mu sync.Mutex
	n  int
}

var total int

func (c *Counter) Inc() {
	c.mu.Lock()
	c.n = c.n + 1
	c.mu.Unlock()
}

func worker(c *Counter, done chan bool) {
	c.Inc()
	total = 1
	done <- true
}

func main() {
	c := &Counter{}
	done := make(chan bool)
	go worker(c, done)
	c.Inc()
	total = 2
	<-done
}
