package state

// SubmitTransaction adds a new transaction to the pending pool and returns
// the index of the block it is expected to be sealed into. No balance or
// signature checks take place, only amounts that can't be hashed are
// rejected.
func (s *State) SubmitTransaction(sender string, recipient string, amount float64) (uint64, error) {
	index, err := s.ledger.QueueTransaction(sender, recipient, amount)
	if err != nil {
		return 0, err
	}

	s.evHandler("state: SubmitTransaction: tx[%s->%s:%v]: blk[%d]", sender, recipient, amount, index)

	if s.autoMine && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return index, nil
}
