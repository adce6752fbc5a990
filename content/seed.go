package content

// Seed populates the store with a few sample articles so a fresh instance
// has something to browse. Unlock counts are non-zero so the dynamic price
// is visible immediately.
func (s *Store) Seed() {
	samples := []struct {
		req         CreateRequest
		creator     string
		unlockCount uint64
	}{
		{
			req: CreateRequest{
				Title:       "High-Frequency Trading on Parallel EVMs",
				Description: "How 10k TPS chains change the economics of on-chain market making, with a complete strategy framework and risk controls.",
				Category:    "Trading",
				Preview:     "Parallel execution engines reorder the latency game for on-chain traders...",
				FullContent: "# High-Frequency Trading on Parallel EVMs\n\n## Infrastructure\nParallel execution removes the single-threaded bottleneck that made most on-chain HFT strategies unviable.\n\n## Strategy framework\n- Cross-DEX spread arbitrage\n- Liquidation bots\n- Inventory-aware market making\n\n## Risk management\nPosition limits, kill switches, and monitoring.\n",
				BasePrice:   "10000000000000000",
				PriceUSD:    "$0.10",
				CreatorName: "CryptoAlpha",
				MetadataURI: "ipfs://QmTrading123",
				Tags:        []string{"trading", "defi"},
			},
			creator:     "0x1234567890123456789012345678901234567890",
			unlockCount: 42,
		},
		{
			req: CreateRequest{
				Title:       "Prompt Engineering Field Guide",
				Description: "Battle-tested prompt templates for code generation, content drafting and data analysis.",
				Category:    "AI",
				Preview:     "A good prompt is a specification. This guide covers the patterns that survive contact with production...",
				FullContent: "# Prompt Engineering Field Guide\n\n## Principles\n1. Set the role\n2. Provide context\n3. Specify the output format\n4. Give examples\n\n## Template library\nCode generation, review, and analysis templates.\n\n## Advanced\nChain of thought, few-shot selection, self-consistency.\n",
				BasePrice:   "5000000000000000",
				PriceUSD:    "$0.05",
				CreatorName: "AIWhisperer",
				MetadataURI: "ipfs://QmPrompt456",
				Tags:        []string{"ai", "prompt"},
			},
			creator:     "0x2345678901234567890123456789012345678901",
			unlockCount: 128,
		},
		{
			req: CreateRequest{
				Title:       "Smart Contract Audit Checklist",
				Description: "Fifty-plus findings from real audits, organized into an actionable review checklist.",
				Category:    "Security",
				Preview:     "Contract security is a process, not an event. This checklist distills recurring findings...",
				FullContent: "# Smart Contract Audit Checklist\n\n## Reentrancy\n- Checks-effects-interactions\n- ReentrancyGuard on external entry points\n\n## Arithmetic\n- Solidity 0.8+ overflow semantics\n\n## Access control\n- Privileged function review\n- Timelocks on upgrades\n\n## Oracles and flash loans\nManipulation-resistant price sources.\n",
				BasePrice:   "20000000000000000",
				PriceUSD:    "$0.20",
				CreatorName: "SecurityGuru",
				MetadataURI: "ipfs://QmSecurity789",
				Tags:        []string{"security", "audit", "solidity"},
			},
			creator:     "0x3456789012345678901234567890123456789012",
			unlockCount: 35,
		},
	}

	for _, sample := range samples {
		item := s.Create(sample.req, sample.creator)
		s.mu.Lock()
		s.items[item.ID].UnlockCount = sample.unlockCount
		s.mu.Unlock()
	}
}
