package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qugu2427/alienpls-api/internal/repository"
)

// Vote applies one vote call atomically: retracting the previous entry,
// setting the new one and adjusting both counters happen in a single script,
// so concurrent voters cannot lose updates to the shared tally.
func (r *repo) Vote(ctx context.Context, params *repository.VoteParams) (repository.VoteResult, error) {
	keys := []string{r.getVotesKey(params.Room)}
	res, err := r.rc.EvalSha(ctx, r.voteScript, keys, params.User, params.Direction).Slice()
	if err != nil {
		return repository.VoteResult{}, err
	}
	if len(res) != 3 {
		return repository.VoteResult{}, fmt.Errorf("unexpected vote script reply: %v", res)
	}

	return repository.VoteResult{
		Status:   int(res[0].(int64)),
		Likes:    int(res[1].(int64)),
		Dislikes: int(res[2].(int64)),
	}, nil
}

func (r *repo) GetTally(ctx context.Context, room string) (repository.VoteTally, error) {
	fields, err := r.rc.HGetAll(ctx, r.getVotesKey(room)).Result()
	if err != nil {
		return repository.VoteTally{}, err
	}

	var tally repository.VoteTally
	tally.Likes, _ = strconv.Atoi(fields["likes"])
	tally.Dislikes, _ = strconv.Atoi(fields["dislikes"])

	return tally, nil
}

func (r *repo) ResetVotes(ctx context.Context, room string) error {
	votesKey := r.getVotesKey(room)

	pipe := r.rc.TxPipeline()
	pipe.Del(ctx, votesKey)
	pipe.HSet(ctx, votesKey, "likes", 0, "dislikes", 0)

	return r.executePipe(ctx, pipe)
}
