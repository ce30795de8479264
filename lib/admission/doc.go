// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

// Package admission is the client for the TEDxBedayia tickets API.
//
// [Client.Admit] checks a ticket in by UUID; [Client.SellOnDoor]
// creates a walk-up ticket; [Client.OnDoorInfo] fetches the on-door
// price and payment methods.
//
// Admit and SellOnDoor never return an error. Every outcome is a
// [Response], which is either a [*Success] carrying the applicant or a
// [*Failure]. A Failure with Network set means the server was never
// heard from (timeout, no connectivity, transport error) and the usher
// may retry; without it the server rejected the request and its
// message should be shown as is.
//
//	switch result := client.Admit(ctx, id, key, device).(type) {
//	case *admission.Success:
//	    fmt.Println("admitted", result.Applicant.FullName)
//	case *admission.Failure:
//	    fmt.Println("rejected:", result.Message)
//	}
//
// Each request is bounded by Config.Timeout, armed on the injected
// clock so tests can expire it deterministically. The app key travels
// only in the query string or request body and is never logged.
package admission
