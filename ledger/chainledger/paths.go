// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chainledger

import "fmt"

// Gateway API paths, centralized so transport code never builds URLs
// inline.
const (
	pathPolls      = "/v1/polls"
	pathTxCreate   = "/v1/tx/create-poll"
	pathTxCastVote = "/v1/tx/cast-vote"
	pathTxEndPoll  = "/v1/tx/end-poll"
)

func pathPoll(id uint64) string {
	return fmt.Sprintf("%s/%d", pathPolls, id)
}

func pathTally(id uint64) string {
	return fmt.Sprintf("%s/%d/tally", pathPolls, id)
}

func pathVote(id uint64, voter string) string {
	return fmt.Sprintf("%s/%d/votes/%s", pathPolls, id, voter)
}

func pathVoterRecords(voter string) string {
	return fmt.Sprintf("/v1/voters/%s/votes", voter)
}

func pathTx(hash string) string {
	return "/v1/tx/" + hash
}
