// Copyright (c) 2026 Bracketon. All rights reserved.
// Author: dev@bracketon.app

package tournament

import "time"

// SetNow overrides the service clock. Test hook only.
func (service *Service) SetNow(now func() time.Time) { service.now = now }
