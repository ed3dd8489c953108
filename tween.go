package main

import "github.com/tanema/gween"

// Action is what happens while a tween runs and once it ends. A finished
// tween can hand over to the next one.
type Action struct {
	onChange func(float32)
	onFinish []func()
	next     *gween.Tween
	nextDo   *Action
}

func (g *Game) play(t *gween.Tween, onChange func(float32)) *Action {
	a := &Action{onChange: onChange}
	g.Tweens[t] = a
	return a
}

func (a *Action) addOnFinish(f func()) {
	a.onFinish = append(a.onFinish, f)
}

// then queues t to start when a's tween finishes.
func (a *Action) then(t *gween.Tween, onChange func(float32)) *Action {
	a.next = t
	a.nextDo = &Action{onChange: onChange}
	return a.nextDo
}

func (g *Game) updateTweens(dt float32) {
	for t, a := range g.Tweens {
		curr, finished := t.Update(dt)
		if a.onChange != nil {
			a.onChange(curr)
		}
		if !finished {
			continue
		}
		for _, f := range a.onFinish {
			f()
		}
		delete(g.Tweens, t)
		if a.next != nil {
			g.Tweens[a.next] = a.nextDo
		}
	}
}
