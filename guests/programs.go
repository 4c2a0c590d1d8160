package guests

import (
	"github.com/weiihann/zkbench/tip5"
	"github.com/weiihann/zkbench/zkvm"
)

// maxDepth keeps 1<<depth inside uint64.
const maxDepth = 63

func iterSHA2(env *zkvm.Env) error {
	return iterHash(env, env.SHA256)
}

func iterBlake2s(env *zkvm.Env) error {
	return iterHash(env, env.Blake2s)
}

// iterHash hashes the seed once and then the running digest n-1 more times.
func iterHash(env *zkvm.Env, hash func([]byte) [32]byte) error {
	n, err := env.ReadU32()
	if err != nil {
		return err
	}

	if err := env.Assert(n >= 1, "iterations must be at least 1"); err != nil {
		return err
	}

	seed, err := env.Read(SeedLen)
	if err != nil {
		return err
	}

	digest := hash(seed)
	for i := uint32(1); i < n; i++ {
		digest = hash(digest[:])
	}

	env.Commit(digest[:])

	return nil
}

func bigSHA2(env *zkvm.Env) error {
	n, err := env.ReadU32()
	if err != nil {
		return err
	}

	buf, err := env.Read(int(n) * 4)
	if err != nil {
		return err
	}

	digest := env.SHA256(buf)
	env.Commit(digest[:])

	return nil
}

func iterTip5(env *zkvm.Env) error {
	n, err := env.ReadU32()
	if err != nil {
		return err
	}

	state := tip5.Zero()
	for i := uint32(0); i < n; i++ {
		state = env.Tip5Step(state)
	}

	env.CommitU64s(tip5.Values(state)...)

	return nil
}

func merklePath(env *zkvm.Env) error {
	depth, err := env.ReadU32()
	if err != nil {
		return err
	}

	if err := env.Assert(depth <= maxDepth, "depth %d exceeds %d", depth, maxDepth); err != nil {
		return err
	}

	first, err := env.ReadU64()
	if err != nil {
		return err
	}

	count, err := env.ReadU32()
	if err != nil {
		return err
	}

	root, err := env.ReadDigest()
	if err != nil {
		return err
	}

	if err := env.Assert(count >= 1, "merkle_path needs at least one leaf"); err != nil {
		return err
	}

	leaves := uint64(1) << depth

	for i := uint64(0); i < uint64(count); i++ {
		index := first + i
		if err := env.Assert(index >= first && index < leaves,
			"leaf index %d outside tree of %d leaves", index, leaves); err != nil {
			return err
		}

		cur := tip5.Leaf(index)
		for lvl, pos := uint32(0), index; lvl < depth; lvl, pos = lvl+1, pos>>1 {
			sibling, err := env.ReadDigest()
			if err != nil {
				return err
			}

			if pos&1 == 0 {
				cur = env.Tip5Merge(cur, sibling)
			} else {
				cur = env.Tip5Merge(sibling, cur)
			}
		}

		if err := env.Assert(tip5.Equal(cur, root),
			"leaf %d does not hash to the claimed root", index); err != nil {
			return err
		}
	}

	env.CommitU64s(tip5.Values(root)...)

	return nil
}
