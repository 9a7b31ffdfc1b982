package handler

import "github.com/go-chi/chi/v5"

// MountAPI registers the versioned resource routes on r.
func MountAPI(r chi.Router, recipes *RecipeHandler, ingredients *IngredientHandler, users *UserHandler) {
	r.Route("/recipes", recipes.Routes)
	r.Route("/ingredients", ingredients.Routes)
	r.Route("/users", users.Routes)
}
