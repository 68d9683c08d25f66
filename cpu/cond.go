package cpu

import (
	"fmt"
)

// ConditionCodes are the flags set by the arithmetic and logical instructions.
type ConditionCodes struct {
	Zero     bool // zf: last result was zero.
	Sign     bool // sf: last result was negative.
	Overflow bool // of: last add/sub overflowed as signed.
}

// Update sets the flags from an ALU result.
func (cc *ConditionCodes) Update(result uint32, overflow bool) {
	cc.Zero = result == 0
	cc.Sign = int32(result) < 0
	cc.Overflow = overflow
}

// Test evaluates a branch/move condition against the flags.
func (cc ConditionCodes) Test(cond CodeCond) (ok bool) {
	switch cond {
	case COND_ALWAYS:
		ok = true
	case COND_LE:
		ok = cc.Zero || cc.Sign
	case COND_L:
		ok = cc.Sign
	case COND_E:
		ok = cc.Zero
	case COND_NE:
		ok = !cc.Zero
	case COND_GE:
		ok = cc.Zero || !cc.Sign
	case COND_G:
		ok = !cc.Sign && !cc.Zero
	}

	return
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// String returns the flags as zf/sf/of bits.
func (cc ConditionCodes) String() string {
	return fmt.Sprintf("zf=%d sf=%d of=%d", bit(cc.Zero), bit(cc.Sign), bit(cc.Overflow))
}
