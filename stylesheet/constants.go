/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package stylesheet

// Other constants we can use to enforce a consistent style across all states of the program

const (
	UpSigil      = "↑"
	DownSigil    = "↓"
	UpDownSigils = UpSigil + "/" + DownSigil
	Indent       = "  "
	Ellipsis     = "…"
	NullDisplay  = "NULL"
)
