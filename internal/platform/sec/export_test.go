// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package sec

import "time"

// SetNow overrides the codec's clock. Test hook only.
func (codec *SessionCodec) SetNow(now func() time.Time) { codec.now = now }

// SetNow overrides the binder's clock. Test hook only.
func (binder *CSRFBinder) SetNow(now func() time.Time) { binder.now = now }
