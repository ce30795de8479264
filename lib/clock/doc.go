// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the time source used by usher's libraries.
//
// Code that stamps records, computes "today", or arms a request
// timeout takes a Clock instead of calling time.Now or time.AfterFunc
// directly. Real returns the standard library behavior. Fake returns a
// clock that only moves when the test calls Advance, so a 15-second
// request timeout can be fired without waiting 15 seconds:
//
//	fake := clock.Fake(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
//	go client.Admit(ctx, uuid, key, device)
//	fake.WaitForTimers(1)        // the client armed its timeout
//	fake.Advance(15 * time.Second)
package clock
