package commerce

// productFields selects every field the normalizer reads, per product type.
const productFields = `
    __typename
    id
    databaseId
    name
    slug
    shortDescription
    featured
    averageRating
    reviewCount
    totalSales
    image { sourceUrl altText }
    galleryImages { nodes { sourceUrl altText } }
    productCategories { nodes { id name slug } }
    attributes { nodes { name options } }
    metaData { key value }
    ... on SimpleProduct { sku price regularPrice salePrice stockStatus stockQuantity }
    ... on VariableProduct {
      sku price regularPrice salePrice stockStatus stockQuantity
      variations(first: 50) { nodes { price regularPrice salePrice } }
    }
    ... on ExternalProduct { sku price regularPrice salePrice externalUrl buttonText }
    ... on GroupedProduct {
      sku
      products { nodes { ... on SimpleProduct { id databaseId name price regularPrice salePrice } } }
    }
`

// ProductsByCategoryQuery lists the products of one category.
const ProductsByCategoryQuery = `
query ProductsByCategory($category: String!, $first: Int!) {
  products(first: $first, where: { category: $category }) {
    nodes {` + productFields + `    }
  }
}
`

// ProductQuery fetches one product by database ID, global ID or slug.
const ProductQuery = `
query Product($id: ID!, $idType: ProductIdTypeEnum!) {
  product(id: $id, idType: $idType) {` + productFields + `  }
}
`

// CategoriesQuery lists product categories.
const CategoriesQuery = `
query Categories {
  productCategories(first: 100) {
    nodes {
      id
      databaseId
      name
      slug
      count
      image { sourceUrl }
    }
  }
}
`

// ReviewsQuery lists the approved reviews of a product.
const ReviewsQuery = `
query ProductReviews($id: ID!, $idType: ProductIdTypeEnum!) {
  product(id: $id, idType: $idType) {
    databaseId
    reviews(first: 100) {
      edges {
        rating
        node {
          id
          date
          content
          author { node { name } }
        }
      }
    }
  }
}
`
