// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"context"

	"github.com/SDash07/Algorithm-Efficiency-and-Scalability/services/benchmark"
)

// multiReporter runs reporters in order.
type multiReporter struct {
	reporters []benchmark.Reporter
}

// Multi returns a Reporter that runs each non-nil reporter in order and
// stops at the first error. Order matters: display needs the saved chart.
func Multi(reporters ...benchmark.Reporter) benchmark.Reporter {
	m := &multiReporter{}
	for _, r := range reporters {
		if r != nil {
			m.reporters = append(m.reporters, r)
		}
	}
	return m
}

func (m *multiReporter) Report(ctx context.Context, table *benchmark.ResultTable) error {
	for _, r := range m.reporters {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Report(ctx, table); err != nil {
			return err
		}
	}
	return nil
}
