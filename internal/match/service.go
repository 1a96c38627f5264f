package match

import (
	"context"
	"fmt"
	"log"

	"github.com/merev/dart-scoring-api/internal/scoring"
)

// Publisher receives live updates for fan-out to spectators. Publishing is
// fire-and-forget and must never influence scoring.
type Publisher interface {
	Publish(matchID, event string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, any) {}

// Service orchestrates the scoring engine, persistence and the live feed.
// Every mutating operation on a leg runs under that leg's mutex, so the turn
// and score derivation never observe interleaved commits.
type Service struct {
	store Store
	legs  *registry
	pub   Publisher
}

func NewService(store Store, pub Publisher) *Service {
	if pub == nil {
		pub = noopPublisher{}
	}
	return &Service{
		store: store,
		legs:  newRegistry(store),
		pub:   pub,
	}
}

// -----------------------------------------------------------------------------
// Roster
// -----------------------------------------------------------------------------

func (s *Service) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (Player, error) {
	if req.Name == "" {
		return Player{}, scoring.NewError(scoring.KindInvalidInput, "player name is required")
	}
	return s.store.CreatePlayer(ctx, req.Name)
}

func (s *Service) ListPlayers(ctx context.Context) ([]Player, error) {
	return s.store.ListPlayers(ctx)
}

// -----------------------------------------------------------------------------
// Match lifecycle
// -----------------------------------------------------------------------------

func (s *Service) CreateMatch(ctx context.Context, req CreateMatchRequest) (Match, error) {
	if req.HomePlayerID == "" || req.AwayPlayerID == "" || req.HomePlayerID == req.AwayPlayerID {
		return Match{}, scoring.NewError(scoring.KindInsufficientPlayers, "a match needs two distinct players")
	}
	if req.BestOfSets < 1 || req.BestOfLegs < 1 {
		return Match{}, scoring.NewError(scoring.KindInvalidInput, "bestOfSets and bestOfLegs must be at least 1")
	}

	m := Match{
		HomePlayerID:   req.HomePlayerID,
		AwayPlayerID:   req.AwayPlayerID,
		BestOfSets:     req.BestOfSets,
		BestOfLegs:     req.BestOfLegs,
		StartingScore:  501,
		DoubleOut:      true,
		AlternateStart: req.AlternateStart,
		Status:         StatusScheduled,
	}
	if req.StartingScore != nil {
		m.StartingScore = *req.StartingScore
	}
	if req.DoubleOut != nil {
		m.DoubleOut = *req.DoubleOut
	}
	if m.StartingScore < 2 {
		return Match{}, scoring.Errorf(scoring.KindInvalidInput, "starting score %d too low", m.StartingScore)
	}

	// Both players must exist before the match is scheduled.
	if _, err := s.store.GetPlayer(ctx, m.HomePlayerID); err != nil {
		return Match{}, err
	}
	if _, err := s.store.GetPlayer(ctx, m.AwayPlayerID); err != nil {
		return Match{}, err
	}

	return s.store.CreateMatch(ctx, m)
}

func (s *Service) GetMatch(ctx context.Context, matchID string) (MatchDetail, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return MatchDetail{}, err
	}
	sets, err := s.store.ListSets(ctx, matchID)
	if err != nil {
		return MatchDetail{}, err
	}
	return MatchDetail{Match: m, Sets: sets}, nil
}

// StartMatch flips a scheduled match live and seeds set 1, leg 1. Home throws
// first in the opening leg.
func (s *Service) StartMatch(ctx context.Context, matchID string) (LiveSnapshot, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return LiveSnapshot{}, err
	}
	switch m.Status {
	case StatusScheduled:
	case StatusLive:
		return LiveSnapshot{}, scoring.NewError(scoring.KindInvalidInput, "match is already live")
	default:
		return LiveSnapshot{}, scoring.Errorf(scoring.KindTerminalState, "match is %s", m.Status)
	}

	home, err := s.store.GetPlayer(ctx, m.HomePlayerID)
	if err != nil {
		return LiveSnapshot{}, err
	}
	away, err := s.store.GetPlayer(ctx, m.AwayPlayerID)
	if err != nil {
		return LiveSnapshot{}, err
	}

	eng, err := scoring.NewLeg(
		m.StartingScore, m.DoubleOut,
		scoring.Player{ID: home.ID, Name: home.Name},
		scoring.Player{ID: away.ID, Name: away.Name},
		scoring.SideHome,
	)
	if err != nil {
		return LiveSnapshot{}, err
	}

	set := Set{MatchID: m.ID, SetNumber: 1}
	leg := Leg{
		LegNumber:     1,
		StartingScore: m.StartingScore,
		HomePlayerID:  m.HomePlayerID,
		AwayPlayerID:  m.AwayPlayerID,
		StartsHome:    true,
	}

	m, set, leg, err = s.store.ActivateMatch(ctx, matchID, set, leg)
	if err != nil {
		return LiveSnapshot{}, err
	}
	s.legs.seed(leg, set, m, eng)

	log.Printf("match %s started: leg %s seeded", m.ID, leg.ID)

	snap := liveSnapshot(m, set, leg, eng)
	s.pub.Publish(m.ID, "match_started", snap)
	return snap, nil
}

// FinalizeMatch ends a live match. The cascade flips the status itself when a
// player reaches the set threshold; calling this on a live match is the
// administrative override.
func (s *Service) FinalizeMatch(ctx context.Context, matchID string) (Match, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return Match{}, err
	}
	switch m.Status {
	case StatusLive:
	case StatusScheduled:
		return Match{}, scoring.NewError(scoring.KindInvalidInput, "only live matches can be finalized")
	default:
		return Match{}, scoring.Errorf(scoring.KindTerminalState, "match is already %s", m.Status)
	}

	m, err = s.store.FinishMatch(ctx, matchID)
	if err != nil {
		return Match{}, err
	}
	log.Printf("match %s finalized: %d : %d sets", m.ID, m.HomeSets, m.AwaySets)
	s.pub.Publish(m.ID, "match_finished", m)
	return m, nil
}

// GetLiveSnapshot returns the current live view of a match.
func (s *Service) GetLiveSnapshot(ctx context.Context, matchID string) (LiveSnapshot, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return LiveSnapshot{}, err
	}
	switch m.Status {
	case StatusLive:
	case StatusScheduled:
		return LiveSnapshot{}, scoring.NewError(scoring.KindInvalidInput, "match is not live yet")
	default:
		return LiveSnapshot{}, scoring.Errorf(scoring.KindTerminalState, "match is %s", m.Status)
	}

	leg, _, err := s.store.CurrentLeg(ctx, matchID)
	if err != nil {
		return LiveSnapshot{}, err
	}

	e, err := s.legs.acquire(ctx, leg.ID)
	if err != nil {
		return LiveSnapshot{}, err
	}
	defer e.release()

	return liveSnapshot(e.match, e.set, e.leg, e.eng), nil
}

// -----------------------------------------------------------------------------
// Scoring operations
// -----------------------------------------------------------------------------

// SubmitThrow commits a full three-dart throw to a leg and runs the
// leg → set → match cascade when it checks out.
func (s *Service) SubmitThrow(ctx context.Context, matchID string, req ThrowRequest) (ThrowResponse, error) {
	if req.LegID == "" {
		return ThrowResponse{}, scoring.NewError(scoring.KindInvalidInput, "legId is required")
	}
	if len(req.Darts) != scoring.DartsPerTurn {
		return ThrowResponse{}, scoring.Errorf(scoring.KindInvalidInput, "a throw is exactly %d darts", scoring.DartsPerTurn)
	}
	var darts [scoring.DartsPerTurn]scoring.Dart
	copy(darts[:], req.Darts)

	e, err := s.acquireFor(ctx, matchID, req.LegID)
	if err != nil {
		return ThrowResponse{}, err
	}
	defer e.release()

	ct, err := e.eng.SubmitThrow(darts)
	if err != nil {
		return ThrowResponse{}, err
	}
	return s.persistCommit(ctx, e, ct)
}

// MarkBust consumes the current turn with a no-score bust.
func (s *Service) MarkBust(ctx context.Context, matchID, legID string) (ThrowResponse, error) {
	e, err := s.acquireFor(ctx, matchID, legID)
	if err != nil {
		return ThrowResponse{}, err
	}
	defer e.release()

	ct, err := e.eng.MarkBust()
	if err != nil {
		return ThrowResponse{}, err
	}
	return s.persistCommit(ctx, e, ct)
}

// AdvanceTurn unlocks a decided turn for the next player. Turn state is
// in-memory only, so nothing is persisted.
func (s *Service) AdvanceTurn(ctx context.Context, matchID, legID string) (LegSnapshot, error) {
	e, err := s.acquireFor(ctx, matchID, legID)
	if err != nil {
		return LegSnapshot{}, err
	}
	defer e.release()

	if err := e.eng.AdvanceTurn(); err != nil {
		return LegSnapshot{}, err
	}
	snap := legSnapshot(e.set, e.leg, e.eng)
	s.pub.Publish(e.match.ID, "turn_advanced", snap)
	return snap, nil
}

// Undo reverses the most recent throw of a leg, restoring score and turn
// state to their pre-throw values.
func (s *Service) Undo(ctx context.Context, matchID, legID string) (ThrowResponse, error) {
	e, err := s.acquireFor(ctx, matchID, legID)
	if err != nil {
		return ThrowResponse{}, err
	}
	defer e.release()

	// Validate against the engine first, then delete durably, then pop the
	// engine; this order means a storage failure leaves both sides intact.
	if e.eng.Finished() {
		return ThrowResponse{}, scoring.NewError(scoring.KindTerminalState, "leg is already finished")
	}
	if e.eng.ThrowCount() == 0 {
		return ThrowResponse{}, scoring.NewError(scoring.KindEmptyHistory, "no throw to undo")
	}
	if err := s.store.DeleteLastThrow(ctx, legID); err != nil {
		return ThrowResponse{}, err
	}
	ct, err := e.eng.Undo()
	if err != nil {
		return ThrowResponse{}, err
	}

	resp := ThrowResponse{
		ThrowTotal:     ct.Result.ThrowTotal,
		RemainingScore: e.eng.Remaining(ct.Side),
		IsBust:         ct.Result.IsBust(),
		IsCheckout:     false,
		Leg:            legSnapshot(e.set, e.leg, e.eng),
	}
	s.pub.Publish(e.match.ID, "throw_undone", resp)
	return resp, nil
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

// acquireFor locks a leg entry and checks it belongs to a live match.
func (s *Service) acquireFor(ctx context.Context, matchID, legID string) (*legEntry, error) {
	e, err := s.legs.acquire(ctx, legID)
	if err != nil {
		return nil, err
	}
	if e.match.ID != matchID {
		e.release()
		return nil, scoring.Errorf(scoring.KindNotFound, "leg %s does not belong to match %s", legID, matchID)
	}
	if e.match.Status != StatusLive {
		e.release()
		return nil, scoring.Errorf(scoring.KindTerminalState, "match is %s", e.match.Status)
	}
	return e, nil
}

// persistCommit writes an engine commit plus its cascade and builds the
// response. If storage fails the cached engine already holds the rejected
// commit (a checkout even marks it finished), so the entry is evicted and the
// next operation rebuilds it from durable history.
func (s *Service) persistCommit(ctx context.Context, e *legEntry, ct scoring.CommittedThrow) (ThrowResponse, error) {
	req := s.buildCommit(e, ct)
	res, err := s.store.CommitThrow(ctx, req)
	if err != nil {
		s.legs.evict(e.leg.ID)
		log.Printf("dropping cached leg %s after storage failure: %v", e.leg.ID, err)
		return ThrowResponse{}, err
	}

	// Fold the persisted cascade back into the cached rows.
	if req.FinishLeg != nil {
		winner := req.FinishLeg.WinnerID
		e.leg.WinnerID = &winner
		e.leg.TotalDarts = &req.FinishLeg.TotalDarts
		e.leg.CheckoutScore = &req.FinishLeg.CheckoutScore
	}
	if req.SetUpdate != nil {
		e.set = *req.SetUpdate
	}
	if req.MatchUpdate != nil {
		e.match = *req.MatchUpdate
	}
	if res.NextLeg != nil {
		s.seedNextLeg(e, res)
	}

	if ct.Event != "" {
		log.Printf("event %s in leg %s", ct.Event, e.leg.ID)
	}

	resp := ThrowResponse{
		ThrowID:        res.Throw.ID,
		ThrowTotal:     ct.Result.ThrowTotal,
		RemainingScore: ct.Result.RemainingAfter,
		IsBust:         ct.Result.IsBust(),
		IsCheckout:     ct.Result.IsCheckout(),
		Event:          ct.Event,
		LegFinished:    ct.Result.IsCheckout(),
		SetFinished:    req.MatchUpdate != nil,
		MatchFinished:  req.MatchUpdate != nil && req.MatchUpdate.Status == StatusFinished,
		Leg:            legSnapshot(e.set, e.leg, e.eng),
	}
	if res.NextLeg != nil {
		resp.NextLegID = res.NextLeg.ID
	}
	s.pub.Publish(e.match.ID, "throw", resp)
	return resp, nil
}

// buildCommit turns an engine commit into a persistence plan. On checkout it
// decides the full cascade: leg winner, set counter, set finish, match
// counter, match finish, and the next set/leg to seed.
func (s *Service) buildCommit(e *legEntry, ct scoring.CommittedThrow) CommitRequest {
	playerID := e.leg.HomePlayerID
	if ct.Side == scoring.SideAway {
		playerID = e.leg.AwayPlayerID
	}

	req := CommitRequest{
		Throw: Throw{
			LegID:       e.leg.ID,
			PlayerID:    playerID,
			ThrowNumber: ct.ThrowNumber,
			Darts:       ct.Result.Darts,
			ThrowTotal:  ct.Result.ThrowTotal,
			IsBust:      ct.Result.IsBust(),
			IsCheckout:  ct.Result.IsCheckout(),
		},
	}
	if !ct.Result.IsCheckout() {
		return req
	}

	req.FinishLeg = &LegFinish{
		LegID:         e.leg.ID,
		WinnerID:      playerID,
		TotalDarts:    e.eng.TotalDarts(),
		CheckoutScore: e.eng.CheckoutValue(),
	}

	set := e.set
	if ct.Side == scoring.SideHome {
		set.HomeLegs++
	} else {
		set.AwayLegs++
	}
	req.SetUpdate = &set

	legsToWin := e.match.LegsToWin()
	if !set.Finished(legsToWin) {
		req.NextLeg = s.nextLeg(e, set.ID, e.leg.LegNumber+1)
		return req
	}

	m := e.match
	if set.HomeWinner(legsToWin) {
		m.HomeSets++
	} else {
		m.AwaySets++
	}
	setsToWin := m.SetsToWin()
	if m.HomeSets >= setsToWin || m.AwaySets >= setsToWin {
		m.Status = StatusFinished
		req.MatchUpdate = &m
		return req
	}
	req.MatchUpdate = &m

	nextSet := Set{MatchID: m.ID, SetNumber: set.SetNumber + 1}
	req.NextSet = &nextSet
	req.NextLeg = s.nextLeg(e, "", 1)
	return req
}

// nextLeg builds the follow-up leg row. The starter alternates per leg when
// the match was configured that way; otherwise home starts every leg.
func (s *Service) nextLeg(e *legEntry, setID string, legNumber int) *Leg {
	startsHome := true
	if e.match.AlternateStart {
		startsHome = !e.leg.StartsHome
	}
	return &Leg{
		SetID:         setID,
		LegNumber:     legNumber,
		StartingScore: e.match.StartingScore,
		HomePlayerID:  e.leg.HomePlayerID,
		AwayPlayerID:  e.leg.AwayPlayerID,
		StartsHome:    startsHome,
	}
}

// seedNextLeg registers a fresh engine for the just-created leg so the next
// throw needs no storage round-trip.
func (s *Service) seedNextLeg(e *legEntry, res CommitResult) {
	leg := *res.NextLeg
	set := e.set
	if res.NextSet != nil {
		set = *res.NextSet
	}
	starter := scoring.SideHome
	if !leg.StartsHome {
		starter = scoring.SideAway
	}
	eng, err := scoring.NewLeg(
		leg.StartingScore, e.match.DoubleOut,
		e.eng.Player(scoring.SideHome),
		e.eng.Player(scoring.SideAway),
		starter,
	)
	if err != nil {
		log.Printf("seeding next leg %s: %v", leg.ID, err)
		return
	}
	s.legs.seed(leg, set, e.match, eng)
}

// -----------------------------------------------------------------------------
// Snapshots
// -----------------------------------------------------------------------------

func liveSnapshot(m Match, set Set, leg Leg, eng *scoring.Leg) LiveSnapshot {
	return LiveSnapshot{
		MatchID:    m.ID,
		Status:     m.Status,
		HomeSets:   m.HomeSets,
		AwaySets:   m.AwaySets,
		CurrentSet: set.SetNumber,
		CurrentLeg: leg.LegNumber,
		Leg:        legSnapshot(set, leg, eng),
	}
}

func legSnapshot(set Set, leg Leg, eng *scoring.Leg) LegSnapshot {
	snap := LegSnapshot{
		ID:            leg.ID,
		SetNumber:     set.SetNumber,
		LegNumber:     leg.LegNumber,
		HomePlayer:    playerSnapshot(eng, scoring.SideHome),
		AwayPlayer:    playerSnapshot(eng, scoring.SideAway),
		CurrentPlayer: scoring.SideName(eng.ActingSide()),
		TurnLocked:    eng.TurnLocked(),
		Finished:      eng.Finished(),
	}
	if w, ok := eng.Winner(); ok {
		snap.WinnerID = w.ID
	}
	return snap
}

func playerSnapshot(eng *scoring.Leg, side int) PlayerSnapshot {
	p := eng.Player(side)
	snap := PlayerSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		RemainingScore: eng.Remaining(side),
		Average:        eng.Average(side),
	}
	hist := eng.History(side)
	if len(hist) > 0 {
		last := hist[len(hist)-1].Result
		snap.LastThrow = fmt.Sprintf("%d, %d, %d (%d)",
			last.DartScores[0], last.DartScores[1], last.DartScores[2], last.ThrowTotal)
	}
	return snap
}
