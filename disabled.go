//go:build gmtdisable

package gmtrace

import "gmtrace/internal/assertions"

// Engine is the no-op harness compiled in by the gmtdisable build tag: every
// method is a zero-cost stub, for host builds that ship without the record
// and replay machinery linked in at all.
type Engine struct{}

// NewEngine returns a no-op Engine.
func NewEngine() *Engine { return &Engine{} }

func (e *Engine) Init(setup Setup) error { return nil }
func (e *Engine) Update() error          { return nil }
func (e *Engine) Reset() error           { return nil }
func (e *Engine) Fail()                  {}
func (e *Engine) Quit() error            { return nil }
func (e *Engine) TestFailed() bool       { return false }
func (e *Engine) Mode() Mode             { return ModeDisabled }
func (e *Engine) SyncSignal(id int32)    {}

func (e *Engine) Assert(cond bool, message string, loc assertions.Location) {}

func (e *Engine) GetFailedAssertions(max int) []assertions.Failure { return nil }
func (e *Engine) ClearFailedAssertions()                           {}

func (e *Engine) PinInt(key uint32, value *int32)      {}
func (e *Engine) PinUint(key uint32, value *uint32)    {}
func (e *Engine) PinFloat(key uint32, value *float32)  {}
func (e *Engine) PinDouble(key uint32, value *float64) {}
func (e *Engine) PinBool(key uint32, value *bool)      {}
func (e *Engine) PinBytes(key uint32, buf []byte)      {}
func (e *Engine) PinIntAuto(value *int32)              {}

func (e *Engine) TrackInt(key uint32, value int32)      {}
func (e *Engine) TrackUint(key uint32, value uint32)    {}
func (e *Engine) TrackFloat(key uint32, value float32)  {}
func (e *Engine) TrackDouble(key uint32, value float64) {}
func (e *Engine) TrackBool(key uint32, value bool)      {}
func (e *Engine) TrackBytes(key uint32, buf []byte)     {}

// --- package-level facade, mirroring global.go/typed.go in the enabled build

func Init(setup Setup) error            { return nil }
func Update() error                     { return nil }
func Reset() error                      { return nil }
func Fail()                             {}
func Quit() error                       { return nil }
func TestFailed() bool                  { return false }
func CurrentMode() Mode                 { return ModeDisabled }
func SyncSignal(id int32)               {}
func Assert(cond bool, message string)  {}

func GetFailedAssertions(max int) []assertions.Failure { return nil }
func ClearFailedAssertions()                           {}

func PinInt(key uint32, value *int32)      {}
func PinUint(key uint32, value *uint32)    {}
func PinFloat(key uint32, value *float32)  {}
func PinDouble(key uint32, value *float64) {}
func PinBool(key uint32, value *bool)      {}
func PinBytes(key uint32, buf []byte)      {}
func PinIntAuto(value *int32)              {}

func TrackInt(key uint32, value int32)      {}
func TrackUint(key uint32, value uint32)    {}
func TrackFloat(key uint32, value float32)  {}
func TrackDouble(key uint32, value float64) {}
func TrackBool(key uint32, value bool)      {}
func TrackBytes(key uint32, buf []byte)     {}
