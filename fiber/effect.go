package fiber

// SpliceChildEffects implements spec.md §4.2 step 4: fold a just-completed
// child's effect list into its parent's, then append the child itself if
// it carries its own effect. Children's effects always precede the
// parent's, keeping the overall list a post-order walk of the subtree.
func SpliceChildEffects(parent, child *Fiber) {
	if child.FirstEffect != nil {
		if parent.FirstEffect == nil {
			parent.FirstEffect = child.FirstEffect
		}
		if parent.LastEffect != nil {
			parent.LastEffect.NextEffect = child.FirstEffect
		}
		parent.LastEffect = child.LastEffect
	}
	if child.EffectTag != NoEffect {
		if parent.FirstEffect == nil {
			parent.FirstEffect = child
		} else {
			parent.LastEffect.NextEffect = child
		}
		parent.LastEffect = child
	}
}
