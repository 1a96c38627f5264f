package match

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merev/dart-scoring-api/internal/scoring"
)

// Repository implements Store on top of Postgres. Throw history is the
// durable record; remaining scores are always recomputed from it, never
// stored.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// -----------------------------------------------------------------------------
// Players
// -----------------------------------------------------------------------------

func (r *Repository) CreatePlayer(ctx context.Context, name string) (Player, error) {
	var p Player
	p.Name = name
	err := r.db.QueryRow(ctx, `
INSERT INTO players (name)
VALUES ($1)
RETURNING id::text, created_at;
`, name).Scan(&p.ID, &p.CreatedAt)
	return p, err
}

func (r *Repository) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := r.db.Query(ctx, `
SELECT id::text, name, created_at
FROM players
ORDER BY created_at ASC, id ASC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *Repository) GetPlayer(ctx context.Context, id string) (Player, error) {
	var p Player
	err := r.db.QueryRow(ctx, `
SELECT id::text, name, created_at
FROM players
WHERE id = $1;
`, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Player{}, scoring.Errorf(scoring.KindNotFound, "player %s not found", id)
	}
	return p, err
}

// -----------------------------------------------------------------------------
// Matches
// -----------------------------------------------------------------------------

func (r *Repository) CreateMatch(ctx context.Context, m Match) (Match, error) {
	err := r.db.QueryRow(ctx, `
INSERT INTO matches (home_player_id, away_player_id, best_of_sets, best_of_legs,
                     starting_score, double_out, alternate_start, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text, created_at;
`, m.HomePlayerID, m.AwayPlayerID, m.BestOfSets, m.BestOfLegs,
		m.StartingScore, m.DoubleOut, m.AlternateStart, m.Status).
		Scan(&m.ID, &m.CreatedAt)
	return m, err
}

func (r *Repository) GetMatch(ctx context.Context, id string) (Match, error) {
	m, err := scanMatch(r.db.QueryRow(ctx, `
SELECT id::text, home_player_id::text, away_player_id::text, best_of_sets,
       best_of_legs, starting_score, double_out, alternate_start, status,
       home_sets, away_sets, created_at, finished_at
FROM matches
WHERE id = $1;
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Match{}, scoring.Errorf(scoring.KindNotFound, "match %s not found", id)
	}
	return m, err
}

func (r *Repository) ListSets(ctx context.Context, matchID string) ([]Set, error) {
	rows, err := r.db.Query(ctx, `
SELECT id::text, match_id::text, set_no, home_legs, away_legs, created_at
FROM sets
WHERE match_id = $1
ORDER BY set_no ASC;
`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]Set, 0)
	for rows.Next() {
		var s Set
		if err := rows.Scan(&s.ID, &s.MatchID, &s.SetNumber, &s.HomeLegs, &s.AwayLegs, &s.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func (r *Repository) ActivateMatch(ctx context.Context, matchID string, set Set, leg Leg) (Match, Set, Leg, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Match{}, Set{}, Leg{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m, err := scanMatch(tx.QueryRow(ctx, `
UPDATE matches
SET status = $2
WHERE id = $1
RETURNING id::text, home_player_id::text, away_player_id::text, best_of_sets,
          best_of_legs, starting_score, double_out, alternate_start, status,
          home_sets, away_sets, created_at, finished_at;
`, matchID, StatusLive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Match{}, Set{}, Leg{}, scoring.Errorf(scoring.KindNotFound, "match %s not found", matchID)
	}
	if err != nil {
		return Match{}, Set{}, Leg{}, err
	}

	set, err = insertSet(ctx, tx, set)
	if err != nil {
		return Match{}, Set{}, Leg{}, err
	}
	leg.SetID = set.ID
	leg, err = insertLeg(ctx, tx, leg)
	if err != nil {
		return Match{}, Set{}, Leg{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Match{}, Set{}, Leg{}, err
	}
	return m, set, leg, nil
}

func (r *Repository) FinishMatch(ctx context.Context, matchID string) (Match, error) {
	m, err := scanMatch(r.db.QueryRow(ctx, `
UPDATE matches
SET status = $2, finished_at = now()
WHERE id = $1
RETURNING id::text, home_player_id::text, away_player_id::text, best_of_sets,
          best_of_legs, starting_score, double_out, alternate_start, status,
          home_sets, away_sets, created_at, finished_at;
`, matchID, StatusFinished))
	if errors.Is(err, pgx.ErrNoRows) {
		return Match{}, scoring.Errorf(scoring.KindNotFound, "match %s not found", matchID)
	}
	return m, err
}

// -----------------------------------------------------------------------------
// Legs & throws
// -----------------------------------------------------------------------------

func (r *Repository) GetLegContext(ctx context.Context, legID string) (Leg, Set, Match, error) {
	var (
		l Leg
		s Set
	)
	var matchID string
	err := r.db.QueryRow(ctx, `
SELECT l.id::text, l.set_id::text, l.leg_no, l.starting_score,
       l.home_player_id::text, l.away_player_id::text, l.starts_home,
       l.winner_id::text, l.total_darts, l.checkout_score, l.started_at, l.finished_at,
       s.id::text, s.match_id::text, s.set_no, s.home_legs, s.away_legs, s.created_at
FROM legs l
JOIN sets s ON s.id = l.set_id
WHERE l.id = $1;
`, legID).Scan(
		&l.ID, &l.SetID, &l.LegNumber, &l.StartingScore,
		&l.HomePlayerID, &l.AwayPlayerID, &l.StartsHome,
		&l.WinnerID, &l.TotalDarts, &l.CheckoutScore, &l.StartedAt, &l.FinishedAt,
		&s.ID, &matchID, &s.SetNumber, &s.HomeLegs, &s.AwayLegs, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Leg{}, Set{}, Match{}, scoring.Errorf(scoring.KindNotFound, "leg %s not found", legID)
	}
	if err != nil {
		return Leg{}, Set{}, Match{}, err
	}
	s.MatchID = matchID

	m, err := r.GetMatch(ctx, matchID)
	if err != nil {
		return Leg{}, Set{}, Match{}, err
	}
	return l, s, m, nil
}

func (r *Repository) CurrentLeg(ctx context.Context, matchID string) (Leg, Set, error) {
	var (
		l Leg
		s Set
	)
	err := r.db.QueryRow(ctx, `
SELECT l.id::text, l.set_id::text, l.leg_no, l.starting_score,
       l.home_player_id::text, l.away_player_id::text, l.starts_home,
       l.winner_id::text, l.total_darts, l.checkout_score, l.started_at, l.finished_at,
       s.id::text, s.match_id::text, s.set_no, s.home_legs, s.away_legs, s.created_at
FROM legs l
JOIN sets s ON s.id = l.set_id
WHERE s.match_id = $1 AND l.finished_at IS NULL
ORDER BY s.set_no DESC, l.leg_no DESC
LIMIT 1;
`, matchID).Scan(
		&l.ID, &l.SetID, &l.LegNumber, &l.StartingScore,
		&l.HomePlayerID, &l.AwayPlayerID, &l.StartsHome,
		&l.WinnerID, &l.TotalDarts, &l.CheckoutScore, &l.StartedAt, &l.FinishedAt,
		&s.ID, &s.MatchID, &s.SetNumber, &s.HomeLegs, &s.AwayLegs, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Leg{}, Set{}, scoring.Errorf(scoring.KindNotFound, "no open leg for match %s", matchID)
	}
	return l, s, err
}

func (r *Repository) ListThrows(ctx context.Context, legID string) ([]Throw, error) {
	rows, err := r.db.Query(ctx, `
SELECT id::text, leg_id::text, player_id::text, throw_no,
       d1_mult, d1_seg, d2_mult, d2_seg, d3_mult, d3_seg,
       throw_total, is_bust, is_checkout, created_at
FROM throws
WHERE leg_id = $1
ORDER BY seq ASC;
`, legID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	throws := make([]Throw, 0)
	for rows.Next() {
		var t Throw
		if err := rows.Scan(
			&t.ID, &t.LegID, &t.PlayerID, &t.ThrowNumber,
			&t.Darts[0].Multiplier, &t.Darts[0].Segment,
			&t.Darts[1].Multiplier, &t.Darts[1].Segment,
			&t.Darts[2].Multiplier, &t.Darts[2].Segment,
			&t.ThrowTotal, &t.IsBust, &t.IsCheckout, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		throws = append(throws, t)
	}
	return throws, rows.Err()
}

// CommitThrow persists a throw together with its lifecycle cascade in one
// transaction.
func (r *Repository) CommitThrow(ctx context.Context, req CommitRequest) (CommitResult, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return CommitResult{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var res CommitResult
	res.Throw = req.Throw
	err = tx.QueryRow(ctx, `
INSERT INTO throws (leg_id, player_id, throw_no,
                    d1_mult, d1_seg, d2_mult, d2_seg, d3_mult, d3_seg,
                    throw_total, is_bust, is_checkout)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id::text, created_at;
`, req.Throw.LegID, req.Throw.PlayerID, req.Throw.ThrowNumber,
		req.Throw.Darts[0].Multiplier, req.Throw.Darts[0].Segment,
		req.Throw.Darts[1].Multiplier, req.Throw.Darts[1].Segment,
		req.Throw.Darts[2].Multiplier, req.Throw.Darts[2].Segment,
		req.Throw.ThrowTotal, req.Throw.IsBust, req.Throw.IsCheckout).
		Scan(&res.Throw.ID, &res.Throw.CreatedAt)
	if err != nil {
		return CommitResult{}, err
	}

	if req.FinishLeg != nil {
		if _, err := tx.Exec(ctx, `
UPDATE legs
SET winner_id = $2, total_darts = $3, checkout_score = $4, finished_at = now()
WHERE id = $1;
`, req.FinishLeg.LegID, req.FinishLeg.WinnerID, req.FinishLeg.TotalDarts, req.FinishLeg.CheckoutScore); err != nil {
			return CommitResult{}, err
		}
	}

	if req.SetUpdate != nil {
		if _, err := tx.Exec(ctx, `
UPDATE sets
SET home_legs = $2, away_legs = $3
WHERE id = $1;
`, req.SetUpdate.ID, req.SetUpdate.HomeLegs, req.SetUpdate.AwayLegs); err != nil {
			return CommitResult{}, err
		}
	}

	if req.MatchUpdate != nil {
		if _, err := tx.Exec(ctx, `
UPDATE matches
SET home_sets = $2, away_sets = $3, status = $4,
    finished_at = CASE WHEN $4 = 'finished' THEN now() ELSE finished_at END
WHERE id = $1;
`, req.MatchUpdate.ID, req.MatchUpdate.HomeSets, req.MatchUpdate.AwaySets, req.MatchUpdate.Status); err != nil {
			return CommitResult{}, err
		}
	}

	if req.NextSet != nil {
		set, err := insertSet(ctx, tx, *req.NextSet)
		if err != nil {
			return CommitResult{}, err
		}
		res.NextSet = &set
	}

	if req.NextLeg != nil {
		leg := *req.NextLeg
		if res.NextSet != nil {
			leg.SetID = res.NextSet.ID
		}
		leg, err := insertLeg(ctx, tx, leg)
		if err != nil {
			return CommitResult{}, err
		}
		res.NextLeg = &leg
	}

	if err := tx.Commit(ctx); err != nil {
		return CommitResult{}, err
	}
	return res, nil
}

// DeleteLastThrow removes the most recent throw of a leg. The sequence column
// is the commit order; timestamps can tie within a millisecond.
func (r *Repository) DeleteLastThrow(ctx context.Context, legID string) error {
	tag, err := r.db.Exec(ctx, `
DELETE FROM throws
WHERE id = (
    SELECT id FROM throws
    WHERE leg_id = $1
    ORDER BY seq DESC
    LIMIT 1
);
`, legID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return scoring.Errorf(scoring.KindEmptyHistory, "leg %s has no throws", legID)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func scanMatch(row pgx.Row) (Match, error) {
	var m Match
	err := row.Scan(
		&m.ID, &m.HomePlayerID, &m.AwayPlayerID, &m.BestOfSets,
		&m.BestOfLegs, &m.StartingScore, &m.DoubleOut, &m.AlternateStart, &m.Status,
		&m.HomeSets, &m.AwaySets, &m.CreatedAt, &m.FinishedAt,
	)
	return m, err
}

func insertSet(ctx context.Context, tx pgx.Tx, s Set) (Set, error) {
	err := tx.QueryRow(ctx, `
INSERT INTO sets (match_id, set_no, home_legs, away_legs)
VALUES ($1, $2, $3, $4)
RETURNING id::text, created_at;
`, s.MatchID, s.SetNumber, s.HomeLegs, s.AwayLegs).Scan(&s.ID, &s.CreatedAt)
	return s, err
}

func insertLeg(ctx context.Context, tx pgx.Tx, l Leg) (Leg, error) {
	err := tx.QueryRow(ctx, `
INSERT INTO legs (set_id, leg_no, starting_score, home_player_id, away_player_id, starts_home)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, started_at;
`, l.SetID, l.LegNumber, l.StartingScore, l.HomePlayerID, l.AwayPlayerID, l.StartsHome).
		Scan(&l.ID, &l.StartedAt)
	return l, err
}

var _ Store = (*Repository)(nil)
