// Copyright (C) 2017 Google Inc.
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

package codegen

// registerClass is the HLSL register-letter family a binding slot belongs
// to; auto-binding assigns a separate running counter per class (spec.md
// §4.8: "sequentially across buffer, texture, sampler, and image
// categories").
type registerClass int

const (
	classBuffer registerClass = iota // 'b' constant buffers
	classTexture                     // 't' textures/structured/byte-address buffers
	classSampler                     // 's' sampler states
	classImage                       // 'u' RW/UAV resources
)

// parseRegister extracts the leading letter and slot digits from a
// "register(...)" annotation's stored content (e.g. "t0", "b2", "s0,
// space1"); ok is false for an empty or malformed annotation.
func parseRegister(reg string) (class registerClass, slot int, ok bool) {
	if reg == "" {
		return 0, 0, false
	}
	letter := reg[0]
	i := 1
	n := 0
	had := false
	for i < len(reg) && reg[i] >= '0' && reg[i] <= '9' {
		n = n*10 + int(reg[i]-'0')
		i++
		had = true
	}
	if !had {
		return 0, 0, false
	}
	switch letter {
	case 'b', 'B':
		return classBuffer, n, true
	case 't', 'T':
		return classTexture, n, true
	case 's', 'S':
		return classSampler, n, true
	case 'u', 'U':
		return classImage, n, true
	default:
		return 0, 0, false
	}
}

// binder assigns GLSL layout(binding=N) slots per spec.md §4.8's binding
// strategy: explicit register() slots pass through verbatim when
// ExplicitBinding is set, otherwise (AutoBinding) each class gets its own
// sequentially assigned counter starting at AutoBindingStartSlot.
type binder struct {
	opts Options
	next map[registerClass]int
}

func newBinder(opts Options) *binder {
	b := &binder{opts: opts, next: map[registerClass]int{}}
	for _, c := range []registerClass{classBuffer, classTexture, classSampler, classImage} {
		b.next[c] = opts.AutoBindingStartSlot
	}
	return b
}

// bindingFor returns the binding slot to emit for reg, and whether a
// layout(binding=...) qualifier should be written at all.
func (b *binder) bindingFor(reg string) (slot int, ok bool) {
	class, explicitSlot, hasReg := parseRegister(reg)
	switch {
	case hasReg && b.opts.ExplicitBinding:
		return explicitSlot, true
	case b.opts.AutoBinding:
		slot := b.next[class]
		b.next[class] = slot + 1
		return slot, true
	default:
		return 0, false
	}
}
