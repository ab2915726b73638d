package domain

// FavoritesObserver receives the whole favorites list after every change.
// Implementations must not block; they are called synchronously from the
// goroutine that made the change.
type FavoritesObserver interface {
	OnFavoritesChanged(favorites []Movie)
}

// ObserverFunc adapts a plain function to FavoritesObserver.
type ObserverFunc func(favorites []Movie)

func (f ObserverFunc) OnFavoritesChanged(favorites []Movie) { f(favorites) }
