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

package ir

import "fmt"

// A StmtOp must implement methods for all the statement kinds
type StmtOp interface {
	DoFieldWrite(*FieldWrite)
	DoFieldRead(*FieldRead)
	DoArrayWrite(*ArrayWrite)
	DoArrayRead(*ArrayRead)
	DoMonitorEnter(*MonitorEnter)
	DoMonitorExit(*MonitorExit)
	DoCall(*Call)
	DoSpawn(*Spawn)
	DoReturn(*Return)
	DoPlain(*Plain)
}

// StmtSwitch maps the statement kinds to the methods of the visitor
func StmtSwitch(visitor StmtOp, s Stmt) {
	switch s := s.(type) {
	case *FieldWrite:
		visitor.DoFieldWrite(s)
	case *FieldRead:
		visitor.DoFieldRead(s)
	case *ArrayWrite:
		visitor.DoArrayWrite(s)
	case *ArrayRead:
		visitor.DoArrayRead(s)
	case *MonitorEnter:
		visitor.DoMonitorEnter(s)
	case *MonitorExit:
		visitor.DoMonitorExit(s)
	case *Call:
		visitor.DoCall(s)
	case *Spawn:
		visitor.DoSpawn(s)
	case *Return:
		visitor.DoReturn(s)
	case *Plain:
		visitor.DoPlain(s)
	default:
		panic(fmt.Sprintf("unexpected statement %T", s))
	}
}

// NoopStmtOp implements StmtOp by doing nothing. Embed it to implement only the methods needed.
type NoopStmtOp struct{}

func (NoopStmtOp) DoFieldWrite(*FieldWrite)     {}
func (NoopStmtOp) DoFieldRead(*FieldRead)       {}
func (NoopStmtOp) DoArrayWrite(*ArrayWrite)     {}
func (NoopStmtOp) DoArrayRead(*ArrayRead)       {}
func (NoopStmtOp) DoMonitorEnter(*MonitorEnter) {}
func (NoopStmtOp) DoMonitorExit(*MonitorExit)   {}
func (NoopStmtOp) DoCall(*Call)                 {}
func (NoopStmtOp) DoSpawn(*Spawn)               {}
func (NoopStmtOp) DoReturn(*Return)             {}
func (NoopStmtOp) DoPlain(*Plain)               {}
